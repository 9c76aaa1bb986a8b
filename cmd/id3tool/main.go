// Command id3tool inspects and edits the ID3 tags of audio files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/steph0de/id3"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:           "id3tool",
		Short:         "Inspect and edit ID3v1/ID3v2 tags",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			id3.SetLogger(logger)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log skipped frames and parse details")

	root.AddCommand(showCmd(), setCmd(), removeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "id3tool:", err)
		os.Exit(1)
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE...",
		Short: "Print the common tag fields of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				tag, err := id3.ReadAnyPath(name)
				tag, err = id3.PartialTagOk(tag, err)
				if tag, err = id3.NoTagOk(tag, err); err != nil {
					return err
				}
				fmt.Println(name)
				if tag == nil {
					fmt.Println("  (no tag)")
					continue
				}
				printField("title", tag.Title())
				printField("artist", tag.Artist())
				printField("album", tag.Album())
				printField("genre", tag.Genre())
				if ts, ok := tag.RecordingTime(); ok {
					printField("date", ts.String())
				}
				if track, total := tag.Track(); track > 0 {
					if total > 0 {
						printField("track", fmt.Sprintf("%d/%d", track, total))
					} else {
						printField("track", fmt.Sprintf("%d", track))
					}
				}
				for _, c := range tag.Comments() {
					printField("comment", c.Text)
				}
			}
			return nil
		},
	}
}

func printField(name, value string) {
	if value != "" {
		fmt.Printf("  %-8s %s\n", name, value)
	}
}

func setCmd() *cobra.Command {
	var (
		title   string
		artist  string
		album   string
		genre   string
		year    int
		track   int
		version int
	)
	cmd := &cobra.Command{
		Use:   "set FILE...",
		Short: "Set tag fields, rewriting each file's tag in place",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := id3.Version(version)
			switch v {
			case id3.Version22, id3.Version23, id3.Version24:
			default:
				return fmt.Errorf("unsupported target version %d", version)
			}
			for _, name := range args {
				tag, err := id3.ReadAnyPath(name)
				tag, err = id3.PartialTagOk(tag, err)
				if tag, err = id3.NoTagOk(tag, err); err != nil {
					return err
				}
				if tag == nil {
					tag = id3.NewTag()
				}
				if cmd.Flags().Changed("title") {
					tag.SetTitle(title)
				}
				if cmd.Flags().Changed("artist") {
					tag.SetArtist(artist)
				}
				if cmd.Flags().Changed("album") {
					tag.SetAlbum(album)
				}
				if cmd.Flags().Changed("genre") {
					tag.SetGenre(genre)
				}
				if cmd.Flags().Changed("year") {
					tag.SetYear(year)
				}
				if cmd.Flags().Changed("track") {
					tag.SetTrack(track, 0)
				}
				if err := tag.WriteToFilePath(name, v); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "track title")
	cmd.Flags().StringVar(&artist, "artist", "", "lead artist")
	cmd.Flags().StringVar(&album, "album", "", "album name")
	cmd.Flags().StringVar(&genre, "genre", "", "content type")
	cmd.Flags().IntVar(&year, "year", 0, "recording year")
	cmd.Flags().IntVar(&track, "track", 0, "track number")
	cmd.Flags().IntVar(&version, "id3v2-version", 4, "target ID3v2 revision (2, 3 or 4)")
	return cmd
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove FILE...",
		Short: "Strip all ID3 tags from each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				removed, err := id3.RemoveAllTagsPath(name)
				if err != nil {
					return err
				}
				fmt.Printf("%s: removed %s\n", name, removed)
			}
			return nil
		},
	}
}
