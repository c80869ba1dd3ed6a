package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"phototagger/internal/acquire"
	"phototagger/internal/config"
	"phototagger/internal/curation"
	"phototagger/internal/pipeline"
	"phototagger/internal/session"
	"phototagger/internal/source"
)

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Run the full tagging pipeline",
	Long: `Acquire images, group near-duplicates, curate the kept set, and stream
it through the tagging backend. The final records are written as JSON.

With the default local source the paths arguments name image files or
directories. Cloud sources (gdrive, onedrive) read the picked files from
the --selection JSON file and may require a browser login first; rerun
with --authenticated after completing the login.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("source", "local", "Image source: local, gdrive, or onedrive")
	runCmd.Flags().String("out", "", "Write final records to this file instead of stdout")
	runCmd.Flags().String("selection", "", "JSON file with the picked cloud files")
	runCmd.Flags().Bool("authenticated", false, "Signal that the browser login completed")
	runCmd.Flags().Bool("keep-duplicates", false, "Keep every image instead of removing duplicates")
}

// filePicker reads a picker selection from a JSON file, standing in for
// the interactive cloud picker.
func filePicker(path string) source.Picker {
	return func(_ context.Context, _ string) ([]source.PickedFile, error) {
		if path == "" {
			return nil, source.ErrPickerCancelled
		}
		data, err := os.ReadFile(path) //nolint:gosec // path comes from a flag
		if err != nil {
			return nil, fmt.Errorf("could not read selection file: %w", err)
		}
		var files []source.PickedFile
		if err := json.Unmarshal(data, &files); err != nil {
			return nil, fmt.Errorf("could not parse selection file: %w", err)
		}
		return files, nil
	}
}

// buildAdapter creates the source adapter for the requested provider.
func buildAdapter(cmd *cobra.Command, cfg *config.Config, store *session.Store, paths []string) (source.Adapter, error) {
	picker := filePicker(mustGetString(cmd, "selection"))

	switch mustGetString(cmd, "source") {
	case "local":
		if len(paths) == 0 {
			return nil, errors.New("local source needs at least one path argument")
		}
		return source.NewLocal(paths), nil
	case "gdrive":
		return source.NewGoogleDrive(cfg.API.BaseURL, store, picker)
	case "onedrive":
		return source.NewOneDrive(cfg.API.BaseURL, store, picker)
	default:
		return nil, fmt.Errorf("unknown source %q", mustGetString(cmd, "source"))
	}
}

// keepEverything unmarks every cell so no duplicate is removed.
func keepEverything(sel *curation.Selection) error {
	for g, group := range sel.Groups() {
		for i := range group {
			marked, err := sel.Marked(g, i)
			if err != nil {
				return err
			}
			if marked {
				if err := sel.Toggle(g, i); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	path, err := session.DefaultPath()
	if err != nil {
		return fmt.Errorf("could not resolve session path: %w", err)
	}
	store, err := session.Open(path)
	if err != nil {
		return fmt.Errorf("could not open session store: %w", err)
	}

	adapter, err := buildAdapter(cmd, cfg, store, args)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("processing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	opts := pipeline.Options{
		Adapter: adapter,
		Store:   store,
		BaseURL: cfg.API.BaseURL,
		OnProgress: func(percent int, _ string) {
			_ = bar.Set(percent)
		},
	}
	if mustGetBool(cmd, "keep-duplicates") {
		opts.Curate = keepEverything
	}

	p := pipeline.New(opts)

	rs, err := p.Run(cmd.Context(), mustGetBool(cmd, "authenticated"))
	if errors.Is(err, acquire.ErrRedirectPending) {
		fmt.Println("Login required. Open the following URL in a browser:")
		fmt.Println(p.AuthorizationURL())
		fmt.Println("Then rerun the command with --authenticated.")
		return nil
	}
	if errors.Is(err, source.ErrPickerCancelled) {
		fmt.Println("Picker cancelled, nothing to do.")
		return nil
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(rs.Records(), "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode records: %w", err)
	}
	if path := mustGetString(cmd, "out"); path != "" {
		if err := os.WriteFile(path, out, 0o600); err != nil {
			return fmt.Errorf("could not write records: %w", err)
		}
		return nil
	}
	fmt.Println(string(out))
	return nil
}
