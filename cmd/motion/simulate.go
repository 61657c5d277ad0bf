package main

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/motion/internal/archive"
	"github.com/vango-dev/motion/internal/config"
	"github.com/vango-dev/motion/internal/errors"
	"github.com/vango-dev/motion/pkg/headless"
	"github.com/vango-dev/motion/pkg/render"
)

type simulateOptions struct {
	output     string
	html       bool
	fullStyles bool
	upload     bool
	storeDir   string
}

func simulateCmd() *cobra.Command {
	var opts simulateOptions

	cmd := &cobra.Command{
		Use:   "simulate <scenario.json>",
		Short: "Play a scenario and write the recording",
		Long: `Play a scenario on a headless document as fast as possible.

The recording (every frame's style patches) is written as JSON. With
--html the final frame is rendered as an HTML snapshot instead.

Examples:
  motion simulate card.json
  motion simulate card.json -o card.rec.json
  motion simulate card.json --html
  motion simulate card.json --upload
  motion simulate card.json --store ./recordings`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.html, "html", false, "Write an HTML snapshot of the final frame")
	cmd.Flags().BoolVar(&opts.fullStyles, "full-styles", false, "Record every style on every frame")
	cmd.Flags().BoolVar(&opts.upload, "upload", false, "Upload the recording to the configured S3 archive")
	cmd.Flags().StringVar(&opts.storeDir, "store", "", "Store the recording in a local archive directory")

	return cmd
}

func runSimulate(ctx context.Context, stdout io.Writer, path string, opts simulateOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	sc, err := readScenarioFile(path)
	if err != nil {
		return err
	}

	var recOpts []headless.RecorderOption
	if opts.fullStyles {
		recOpts = append(recOpts, headless.WithFullStyles())
	}
	p, err := headless.NewPlayer(sc, documentOptions(cfg, logger), recOpts...)
	if err != nil {
		return err
	}
	for !p.Done() {
		if _, _, _, err := p.Advance(); err != nil {
			return err
		}
	}
	rec := p.Recorder().Recording()
	logger.Debug("scenario finished", "scenario", sc.Name, "frames", len(rec.Frames), "elapsed", p.Elapsed())

	var buf bytes.Buffer
	if opts.html {
		if err := render.RenderHTML(&buf, p.Document().Snapshot(), render.HTMLConfig{Pretty: true}); err != nil {
			return err
		}
		buf.WriteByte('\n')
	} else if err := rec.WriteJSON(&buf); err != nil {
		return err
	}

	if opts.output == "" {
		if _, err := stdout.Write(buf.Bytes()); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(opts.output, buf.Bytes(), 0644); err != nil {
			return err
		}
		success("Wrote %s (%d frames)", opts.output, len(rec.Frames))
	}

	if !opts.upload && opts.storeDir == "" {
		return nil
	}
	store, err := openStore(cfg, opts.storeDir)
	if err != nil {
		return err
	}
	obj, err := archive.PutRecording(ctx, store, rec)
	if err != nil {
		return err
	}
	success("Archived %s", obj.Key)
	info("%d bytes", obj.Size)
	return nil
}

// openStore returns a DiskStore for dir, or the configured S3 archive when
// dir is empty.
func openStore(cfg *config.Config, dir string) (archive.Store, error) {
	if dir != "" {
		return archive.NewDiskStore(dir, archive.DefaultMaxSize)
	}
	if cfg.Archive.Bucket == "" {
		return nil, errors.New("E122").
			WithDetail("archive.bucket is not set").
			WithSuggestion("Set archive.bucket in motion.json or use --store")
	}
	client := archive.NewS3Client(cfg.Archive.Region)
	return archive.NewS3Store(client, cfg.Archive.Bucket, cfg.Archive.Prefix, archive.DefaultMaxSize), nil
}
