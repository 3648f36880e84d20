// Standalone acquisition check: runs the transcript waterfall for a URL
// without starting the API server.
//
//	go run scripts/acquire.go <url>
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/podscribe-team/podscribe/internal/infrastructure/external/downloader"
	"github.com/podscribe-team/podscribe/internal/infrastructure/external/youtube"
	"github.com/podscribe-team/podscribe/internal/usecase/transcript"
	pkgai "github.com/podscribe-team/podscribe/pkg/ai"
	"github.com/podscribe-team/podscribe/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: go run scripts/acquire.go <url>")
	}
	url := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	captions := youtube.NewClient("", logger)
	ytdlp := downloader.New(cfg.Paths.TempDir, logger)
	engine := pkgai.NewSpeechEngine(&cfg.Assembly)
	svc := transcript.NewService(captions, ytdlp, engine, cfg.Assembly.SpeechModel, logger)

	log.Printf("🎙️  Acquiring transcript for %s", url)

	result, err := svc.Acquire(context.Background(), url, 0, cfg.Quality.Threshold, func(m string) {
		log.Printf("… %s", m)
	})
	if err != nil {
		log.Fatalf("Acquisition failed: %v", err)
	}

	log.Printf("✅ Acquired via %s (language %s, score %.2f, %d chars)",
		result.Source, result.Language, result.QualityScore, len(result.Text))

	preview := result.Text
	if len(preview) > 400 {
		preview = preview[:400] + "…"
	}
	fmt.Println(preview)
}
