/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/valpere/polytran/internal/chunker"
	"github.com/valpere/polytran/internal/translator"
)

var (
	ttsFlags  textFlags
	ttsSource string
	ttsSpeed  int
	ttsGender string
	ttsOutput string
)

var ttsCmd = &cobra.Command{
	Use:   "tts [text]",
	Short: "Synthesize speech from text",
	Long: `Synthesize speech with a backend that supports it (amazon) and write
the audio to --output. With --split every piece is synthesized separately
and the audio is appended in order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		gender, err := translator.ParseGender(ttsGender)
		if err != nil {
			return err
		}
		text, err := ttsFlags.text(cmd, args)
		if err != nil {
			return err
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		service := ttsFlags.service
		if service == "" {
			service = "amazon"
		}
		t, err := a.translator(service)
		if err != nil {
			return err
		}

		speech := t.TextToSpeechAll(ctx, chunker.Split(text, ttsFlags.split), ttsSpeed, gender, ttsSource)
		defer speech.Close()

		var audio []byte
		for r, err := range speech.All() {
			if err != nil {
				return err
			}
			audio = append(audio, r.Audio...)
		}
		if len(audio) == 0 {
			return fmt.Errorf("no audio produced")
		}

		if err := os.MkdirAll(filepath.Dir(ttsOutput), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(ttsOutput, audio, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes of audio to %s\n", len(audio), ttsOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ttsCmd)

	ttsFlags.register(ttsCmd)
	ttsCmd.Flags().StringVarP(&ttsSource, "source", "s", "en", "Language of the text")
	ttsCmd.Flags().IntVar(&ttsSpeed, "speed", translator.DefaultSpeed, "Speaking rate in percent of normal")
	ttsCmd.Flags().StringVar(&ttsGender, "gender", "female", "Voice gender (female, male, other)")
	ttsCmd.Flags().StringVarP(&ttsOutput, "output", "o", "speech.mp3", "Output audio file")
}
