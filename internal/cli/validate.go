package cli

import (
	stderrors "errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/level"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <level>",
		Short: "Check a level descriptor for authoring mistakes",
		Long: `Validate checks room graph structure, template ids and geometry, doorway
placement, and that every room category used by a graph has a template.

Builds do not validate; a broken level usually just fails to lay out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := level.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := lvl.Validate(); err != nil {
				printError("%s has problems:", lvl.Name)
				for _, p := range problems(err) {
					printDetail("%s", p)
				}
				return errors.New(errors.ErrCodeInvalidLevel, "%s is not valid", args[0])
			}

			printSuccess("%s is valid", lvl.Name)
			printDetail("%d room graphs, %d templates", len(lvl.Graphs), len(lvl.Templates))
			return nil
		},
	}
}

// problems flattens a validation error into one line per problem.
func problems(err error) []string {
	var joined interface{ Unwrap() []error }
	if !stderrors.As(err, &joined) {
		return []string{errors.UserMessage(err)}
	}
	var out []string
	for _, e := range joined.Unwrap() {
		for _, line := range strings.Split(e.Error(), "\n") {
			if line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}
