package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/recognizers/internal/profile"
	"github.com/hrygo/recognizers/plugin/recognizer"
	"github.com/hrygo/recognizers/plugin/recognizer/model"
	"github.com/hrygo/recognizers/server/timezone"
	"github.com/hrygo/recognizers/store"
)

type recognizeOptions struct {
	culture   string
	reference string
	filter    string
	file      string
	markdown  bool
	save      bool
	output    string
}

func newRecognizeCmd(v *viper.Viper) *cobra.Command {
	opts := &recognizeOptions{}
	cmd := &cobra.Command{
		Use:   "recognize [text...]",
		Short: "Recognize expressions in text given as arguments, a file or stdin",
		Example: `  recognizers recognize "the meeting lasted 2 hours"
  recognizers recognize --culture pt-br "cerca de 3 dias atrás"
  recognizers recognize --markdown --file notes.md --filter 'category == "duration"'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecognize(cmd, v, opts, args)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.culture, "culture", "", "culture code, the default culture when empty")
	flags.StringVar(&opts.reference, "reference", "", "reference instant (RFC 3339 or local date-time), now when empty")
	flags.StringVar(&opts.filter, "filter", "", "CEL expression selecting outcomes")
	flags.StringVarP(&opts.file, "file", "f", "", `read text from a file, "-" for stdin`)
	flags.BoolVar(&opts.markdown, "markdown", false, "treat the input as Markdown")
	flags.BoolVar(&opts.save, "save", false, "persist the outcomes to history")
	flags.StringVarP(&opts.output, "output", "o", outputText, "output format, text or json")
	return cmd
}

func runRecognize(cmd *cobra.Command, v *viper.Viper, opts *recognizeOptions, args []string) error {
	if err := validateOutput(opts.output); err != nil {
		return err
	}
	text, err := readInput(cmd.InOrStdin(), opts.file, args)
	if err != nil {
		return err
	}
	p, err := loadProfile(v)
	if err != nil {
		return err
	}
	rec, err := newRecognizer(p)
	if err != nil {
		return err
	}
	loc, err := timezone.ParseTimezone(p.Timezone)
	if err != nil {
		return err
	}
	ref, err := timezone.ParseReference(opts.reference, loc)
	if err != nil {
		return err
	}

	req := recognizer.Request{
		Culture:   opts.culture,
		Text:      text,
		Reference: ref,
		Filter:    opts.filter,
	}
	recognize := rec.Recognize
	if opts.markdown {
		recognize = rec.RecognizeMarkdown
	}
	ctx := cmd.Context()
	outcomes, err := recognize(ctx, req)
	if err != nil {
		return err
	}

	if opts.save && len(outcomes) > 0 {
		culture := recognizer.NormalizeCulture(opts.culture)
		if culture == "" {
			culture = rec.DefaultCulture()
		}
		if err := saveOutcomes(ctx, p, culture, outcomes); err != nil {
			return err
		}
	}
	return printOutcomes(cmd.OutOrStdout(), opts.output, outcomes)
}

func saveOutcomes(ctx context.Context, p *profile.Profile, culture string, outcomes []model.ParseOutcome) error {
	st, err := openStore(ctx, p)
	if err != nil {
		return err
	}
	defer st.Close()

	_, err = st.CreateRecognitions(ctx, store.NewRecognitions(uuid.NewString(), culture, outcomes))
	return err
}

// readInput prefers the file flag, then the arguments, then stdin.
func readInput(stdin io.Reader, file string, args []string) (string, error) {
	switch {
	case file == "-":
		b, err := io.ReadAll(stdin)
		return string(b), errors.Wrap(err, "read stdin")
	case file != "":
		b, err := os.ReadFile(file)
		return string(b), errors.Wrapf(err, "read %s", file)
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Wrap(err, "read stdin")
		}
		if len(b) == 0 {
			return "", errors.New("no input: pass text as arguments, --file or stdin")
		}
		return string(b), nil
	}
}
