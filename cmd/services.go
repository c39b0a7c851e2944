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
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/polytran/internal/language"
	"github.com/valpere/polytran/internal/translator"
)

var checkTimeout time.Duration

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List backends, their availability and supported languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCONFIGURED\tAVAILABLE\tLANGUAGES")
		for _, name := range a.registry.Names() {
			backend, err := a.registry.Get(name)
			if err != nil {
				return err
			}

			checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			available := "yes"
			if err := backend.IsAvailable(checkCtx); err != nil {
				available = "no: " + err.Error()
			}
			langs := "all"
			if codes, err := backend.SupportedLanguages(checkCtx); err != nil {
				langs = "unknown"
			} else if len(codes) > 0 {
				langs = strconv.Itoa(len(codes))
			}
			cancel()

			fmt.Fprintf(w, "%s\t%v\t%s\t%s\n", name, slices.Contains(cfg.Services, name), available, langs)
		}
		return w.Flush()
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages [name...]",
	Short: "List known languages or resolve language names",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

		if len(args) == 0 {
			fmt.Fprintln(w, "CODE\tALPHA3\tNAME")
			for _, l := range language.Default.Languages() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", l.Code, l.Alpha3, l.Name)
			}
			return w.Flush()
		}

		fmt.Fprintln(w, "INPUT\tCODE\tNAME\tKIND")
		for _, raw := range args {
			l, err := language.Resolve(raw)
			var unknown *language.UnknownLanguageError
			switch {
			case errors.As(err, &unknown):
				fmt.Fprintf(w, "%s\t-\t%s\t%s\n", raw, unknown.Error(), translator.Kind(err))
			case err != nil:
				return err
			default:
				fmt.Fprintf(w, "%s\t%s\t%s\t\n", raw, l.Code, l.Name)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(servicesCmd, languagesCmd)

	servicesCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Second, "Availability check timeout per backend")
}
