// Package cli implements bookctl, the terminal front end of the book catalog.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shelfsync/book-catalog/internal/client"
	"github.com/shelfsync/book-catalog/internal/controller"
	"github.com/shelfsync/book-catalog/internal/session"
)

// version is reported by --version.
var version = "dev"

// SetVersion sets the version string shown by --version.
func SetVersion(v string) { version = v }

// app carries what every subcommand needs once configuration is resolved.
type app struct {
	session *session.FileStore
	ctrl    *controller.Controller
	in      *bufio.Reader
}

// NewRootCmd builds the bookctl command tree.
func NewRootCmd() *cobra.Command {
	var (
		flagConfig  string
		flagNoColor bool
	)
	a := &app{}
	v := viper.New()

	root := &cobra.Command{
		Use:   "bookctl",
		Short: "Browse and manage the book catalog",
		Long: `bookctl talks to a catalogd server.

Anyone can list books. Adding, editing and deleting require a session:
run 'bookctl login' first. The session token is kept in a file under
~/.config/bookctl unless --session-file says otherwise.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/bookctl/config.yml)")
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().String("server", "", "Catalog server base URL")
	root.PersistentFlags().String("session-file", "", "Session token file")
	_ = v.BindPFlag("server", root.PersistentFlags().Lookup("server"))
	_ = v.BindPFlag("session_file", root.PersistentFlags().Lookup("session-file"))

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		initColor(flagNoColor, cmd.OutOrStdout())

		cfg, err := loadConfig(v, flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cfg.Server == "" {
			return fmt.Errorf("no server configured, set --server or BOOKCTL_SERVER")
		}

		cl := client.New(cfg.Server, client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
		a.session = session.NewFileStore(cfg.SessionFile)
		a.ctrl = controller.New(cl, cl, a.session, controller.WithNotificationTimeout(0))
		a.in = bufio.NewReader(cmd.InOrStdin())
		return nil
	}

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
	)
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// initColor turns colors off for --no-color and for output that is not a terminal.
func initColor(noColor bool, out io.Writer) {
	if noColor {
		color.NoColor = true
		return
	}
	f, isFile := out.(*os.File)
	if !isFile {
		color.NoColor = true
		return
	}
	fi, err := f.Stat()
	if err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		color.NoColor = true
	}
}

// ok prints a green success line.
func ok(cmd *cobra.Command, format string, a ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(cmd *cobra.Command, format string, a ...any) {
	fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("!"), fmt.Sprintf(format, a...))
}

// prompt writes label and reads one trimmed line of input.
func (a *app) prompt(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := a.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question; anything but y or yes is a no.
func (a *app) confirm(cmd *cobra.Command, question string) (bool, error) {
	answer, err := a.prompt(cmd, question+" [y/N] ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
