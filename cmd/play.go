package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"TamilFM/core/audio"
	"TamilFM/core/player"
	"TamilFM/logger"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the interactive player",
	Long: `Start the interactive player on the song library.

Commands: p play/pause, n next, b previous, <number> jump to track,
s <seconds> seek, v <0-100> volume, m mute, l list, q quit.`,
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()

		stopWatch, err := app.sessions.WatchCredentials()
		if err != nil {
			logger.Warn("credential watcher unavailable", logger.ErrorField(err))
		} else {
			defer stopWatch()
		}

		tracks, err := app.lib.List(context.Background())
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to load the library:", err)
			os.Exit(1)
		}

		engine := player.NewEngine(audio.NewFFPlayOutput(app.cfg.FFplayPath))
		defer engine.Close()
		engine.LoadPlaylist(tracks)

		for i, t := range tracks {
			fmt.Printf("%2d. %s — %s (%s)\n", i+1, t.Title, t.Artist, t.Album)
		}
		fmt.Println()

		scanner := bufio.NewScanner(os.Stdin)
		printNowPlaying(engine)
		for scanner.Scan() {
			fields := strings.Fields(scanner.Text())
			if len(fields) == 0 {
				printNowPlaying(engine)
				continue
			}
			switch fields[0] {
			case "q":
				return
			case "p":
				engine.TogglePlayPause()
			case "n":
				engine.Next()
			case "b":
				engine.Previous()
			case "m":
				engine.ToggleMute()
			case "l":
				for i, t := range tracks {
					fmt.Printf("%2d. %s — %s\n", i+1, t.Title, t.Artist)
				}
			case "s":
				if len(fields) > 1 {
					if sec, err := strconv.ParseFloat(fields[1], 64); err == nil {
						engine.Seek(sec)
					}
				}
			case "v":
				if len(fields) > 1 {
					if pct, err := strconv.Atoi(fields[1]); err == nil {
						engine.SetVolume(float64(pct) / 100)
					}
				}
			default:
				if idx, err := strconv.Atoi(fields[0]); err == nil {
					if err := engine.PlayAt(idx - 1); err != nil {
						fmt.Println(err)
						continue
					}
				}
			}
			printNowPlaying(engine)
		}
	},
}

func printNowPlaying(engine *player.Engine) {
	snap := engine.Snapshot()
	if snap.Track == nil {
		fmt.Println("Playlist is empty.")
		return
	}
	state := "⏸"
	if snap.Transport.IsPlaying() {
		state = "▶"
	}
	vol := fmt.Sprintf("%d%%", int(snap.Transport.Volume*100))
	if snap.Transport.Muted {
		vol = "muted"
	}
	fmt.Printf("%s %s — %s  [%s / %s]  vol %s\n",
		state, snap.Track.Title, snap.Track.Artist,
		player.FormatTime(snap.Transport.Position),
		player.FormatTime(snap.Transport.Duration),
		vol)
}

func init() {
	rootCmd.AddCommand(playCmd)
}
