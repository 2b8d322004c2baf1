package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"TamilFM/core/library"
)

var uploadReq library.UploadRequest

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a song (audio file plus optional cover art)",
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()
		identity := app.requireIdentity()
		uploadReq.UserID = identity.ID

		track, err := app.lib.Upload(context.Background(), uploadReq)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Upload failed:", err)
			os.Exit(1)
		}
		fmt.Printf("Uploaded %q by %s\n", track.Title, track.Artist)
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadReq.Title, "title", "", "song title")
	uploadCmd.Flags().StringVar(&uploadReq.Artist, "artist", "", "artist name")
	uploadCmd.Flags().StringVar(&uploadReq.Album, "album", "", "album name")
	uploadCmd.Flags().IntVar(&uploadReq.Duration, "duration", 0, "duration in seconds")
	uploadCmd.Flags().StringVar(&uploadReq.AudioPath, "audio", "", "path to the audio file")
	uploadCmd.Flags().StringVar(&uploadReq.CoverPath, "cover", "", "path to the cover image (optional)")
	rootCmd.AddCommand(uploadCmd)
}
