package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ls-toolkit/lstoolkit/pkg/dialog"
)

var flagLocaPaths []string

var dialogCmd = &cobra.Command{
	Use:   "dialog",
	Short: "Work with dialog speaker data",
}

var dialogResolveCmd = &cobra.Command{
	Use:   "resolve-speaker PAK... -- SPEAKER_UUID",
	Short: "Resolve a speaker UUID to a display name using one or more PAKs",
	Long: `dialog builds a speaker index from every character-template and
speaker-group LSF file found in the given PAKs, then prints the display
name for SPEAKER_UUID. Names recorded for a speaker group carry the
'__DIRECT__:' prefix rather than a TranslatedString handle, since a group's
display name is a literal string, not a localisation reference.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		paks, uuid := args[:len(args)-1], args[len(args)-1]
		if err := runDialogResolve(paks, uuid); err != nil {
			setError(err, 1)
			return
		}
	},
}

func init() {
	dialogResolveCmd.Flags().StringSliceVar(&flagLocaPaths, "loca", nil, "LOCA files to consult when the speaker name is a translation handle")
	dialogCmd.AddCommand(dialogResolveCmd)
}

func runDialogResolve(paks []string, speakerUUID string) error {
	idx, err := dialog.BuildSpeakerIndex(paks)
	if err != nil {
		return err
	}

	name, ok := idx.DisplayNameFor(speakerUUID)
	if !ok {
		return fmt.Errorf("no speaker found for %s", speakerUUID)
	}

	if strings.HasPrefix(name, dialog.DirectPrefix) {
		log.Printf("%s", strings.TrimPrefix(name, dialog.DirectPrefix))
		return nil
	}

	if len(flagLocaPaths) == 0 {
		log.Printf("handle %s", name)
		return nil
	}

	cache, err := dialog.BuildLocalisationCache(flagLocaPaths)
	if err != nil {
		return err
	}
	text, ok := cache.TextFor(name)
	if !ok {
		return fmt.Errorf("handle %s has no localised text in the given LOCA files", name)
	}
	log.Printf("%s", text)
	return nil
}
