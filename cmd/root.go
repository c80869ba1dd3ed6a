package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "phototagger",
	Short: "A CLI tool for curating and tagging photos using AI",
	Long: `Photo Tagger acquires images from local folders, Google Drive, or
OneDrive, groups near-duplicates with perceptual hashing, and streams the
kept set through an AI tagging backend that suggests a filename, tags, and
a description for every image.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
