package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shelfsync/book-catalog/internal/controller"
	"github.com/shelfsync/book-catalog/internal/core/domain"
)

func newListCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all books",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ctrl.Mount(cmd.Context()); err != nil {
				return errors.New(a.ctrl.Snapshot().Error)
			}
			books := a.ctrl.Snapshot().Books

			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(books)
			case "yaml":
				out, err := yaml.Marshal(books)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			case "table", "":
				renderBooks(cmd.OutOrStdout(), books)
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")
	return cmd
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func renderBooks(w io.Writer, books []domain.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No Books Found")
		return
	}

	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{b.ID, b.Title, b.Author, b.Genre, strconv.Itoa(b.YearPublished)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "AUTHOR", "GENRE", "YEAR").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.String())
}

// bookFlags are the editable fields shared by add and edit.
type bookFlags struct {
	title  string
	author string
	genre  string
	year   int
}

func (f *bookFlags) register(cmd *cobra.Command, defaultYear int) {
	cmd.Flags().StringVar(&f.title, "title", "", "Book title")
	cmd.Flags().StringVar(&f.author, "author", "", "Book author")
	cmd.Flags().StringVar(&f.genre, "genre", "", "Book genre")
	cmd.Flags().IntVar(&f.year, "year", defaultYear, "Year published")
}

// apply overrides the fields of form whose flags were set explicitly.
func (f *bookFlags) apply(cmd *cobra.Command, form controller.Form) controller.Form {
	if cmd.Flags().Changed("title") {
		form.Title = f.title
	}
	if cmd.Flags().Changed("author") {
		form.Author = f.author
	}
	if cmd.Flags().Changed("genre") {
		form.Genre = f.genre
	}
	if cmd.Flags().Changed("year") {
		form.YearPublished = f.year
	}
	return form
}

func newAddCmd(a *app) *cobra.Command {
	var f bookFlags

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a book to the catalog",
		Example: `  bookctl add --title "Dune" --author "Frank Herbert" --genre "Science Fiction" --year 1965`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := controller.Form{Title: f.title, Author: f.author, Genre: f.genre, YearPublished: f.year}
			if err := a.ctrl.Add(cmd.Context(), form); err != nil {
				return err
			}
			report(cmd, a.ctrl.Snapshot())
			return nil
		},
	}

	f.register(cmd, time.Now().Year())
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var f bookFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a book",
		Long: `Edit a book. Only the fields given as flags change; the others keep
their current values.`,
		Example: `  bookctl edit 3 --genre "Classic"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := a.ctrl.Mount(cmd.Context()); err != nil {
				return errors.New(a.ctrl.Snapshot().Error)
			}

			book, found := findBook(a.ctrl.Snapshot().Books, id)
			if !found {
				return domain.ErrBookNotFound
			}
			if err := a.ctrl.Edit(cmd.Context(), id, f.apply(cmd, controller.FormFor(book))); err != nil {
				return err
			}
			report(cmd, a.ctrl.Snapshot())
			return nil
		},
	}

	f.register(cmd, 0)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a book",
		Example: `  bookctl delete 2
  bookctl delete 2 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := a.ctrl.Mount(cmd.Context()); err != nil {
				return errors.New(a.ctrl.Snapshot().Error)
			}

			book, found := findBook(a.ctrl.Snapshot().Books, id)
			if !found {
				book = domain.Book{ID: id, Title: id}
			}
			a.ctrl.RequestDelete(book)

			if !skipConfirm {
				yes, err := a.confirm(cmd, a.ctrl.ConfirmationMessage())
				if err != nil {
					a.ctrl.CancelDelete()
					return err
				}
				if !yes {
					a.ctrl.CancelDelete()
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := a.ctrl.ConfirmDelete(cmd.Context()); err != nil {
				return err
			}
			report(cmd, a.ctrl.Snapshot())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

// report prints the current notification and any refresh failure that
// followed the mutation.
func report(cmd *cobra.Command, s controller.State) {
	if n := s.Notification; n != nil {
		if n.Kind == controller.NotificationError {
			fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("✗"), n.Message)
		} else {
			ok(cmd, "%s", n.Message)
		}
	}
	if s.Error != "" {
		warn(cmd, "%s", s.Error)
	}
}

func findBook(books []domain.Book, id string) (domain.Book, bool) {
	for _, b := range books {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Book{}, false
}
