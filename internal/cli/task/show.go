package task

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/cli"
	"github.com/tracklite/tracklite/internal/cli/styles"
	"github.com/tracklite/tracklite/internal/taskdetail"
)

// Glamour renderers are expensive to build; cache by width.
var rendererCache sync.Map // map[int]*glamour.TermRenderer

func getRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache.Store(width, renderer)
	return renderer, nil
}

// renderDescription renders a markdown description for the terminal,
// falling back to the raw text if rendering fails
func renderDescription(description string, width int) string {
	if description == "" {
		return styles.SubtitleStyle.Render("No description")
	}
	renderer, err := getRenderer(width)
	if err == nil {
		if rendered, err := renderer.Render(description); err == nil {
			return strings.TrimSpace(rendered)
		}
	}
	return description
}

// ShowCmd returns the task show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show task details",
		Long:  "Display a task with its description, labels, comments, and activity history.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	cmd.Flags().Int("project", 0, "Project ID (uses TRACKLITE_PROJECT env var if not specified)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	taskID, err := cli.ParseIDArg(args, "task")
	if err != nil {
		formatter.Error("INVALID_TASK_ID", err.Error())
		os.Exit(cli.ExitUsage)
	}

	ctrl := loadBoard(ctx, cmd, formatter)
	bound := findTask(ctrl, taskID, formatter)

	cliInstance, _ := cli.GetCLIFromContext(ctx)
	detail := taskdetail.NewController(cliInstance.Client, ctrl.ReplaceTask, nil)
	detail.Bind(ctx, bound)

	task := detail.Task()
	comments := detail.Comments()
	activity := detail.Activity()

	if quietMode {
		fmt.Printf("%d\n", task.ID)
		return nil
	}
	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":  true,
			"task":     task,
			"comments": comments,
			"activity": activity,
		})
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(task.Title))
	b.WriteString("  " + styles.SubtitleStyle.Render(fmt.Sprintf("#%d", task.ID)))
	b.WriteString("\n" + styles.StatusBadge(task.Status) + " " + styles.PriorityBadge(task.Priority))
	if task.Assignee != nil {
		b.WriteString("\n" + styles.LabelStyle.Render("Assignee: ") + task.Assignee.Name)
	}
	if task.DueDate != nil {
		b.WriteString("\n" + styles.LabelStyle.Render("Due: ") + task.DueDate.String())
	}
	if len(task.Labels) > 0 {
		chips := make([]string, 0, len(task.Labels))
		for _, l := range task.Labels {
			chips = append(chips, styles.LabelChip(l.Name, l.Color))
		}
		b.WriteString("\n" + styles.LabelStyle.Render("Labels: ") + strings.Join(chips, " "))
	}

	b.WriteString("\n\n" + styles.SectionStyle.Render("Description"))
	b.WriteString("\n" + renderDescription(task.Description, styles.CardWidth-6))

	if len(comments) > 0 {
		b.WriteString("\n" + styles.SectionStyle.Render(fmt.Sprintf("Comments (%d)", len(comments))))
		for _, c := range comments {
			author := "unknown"
			if c.Author != nil {
				author = c.Author.Name
			}
			b.WriteString(fmt.Sprintf("\n%s %s\n  %s",
				styles.LabelStyle.Render(author),
				styles.SubtitleStyle.Render(c.CreatedAt.Format("2006-01-02 15:04")),
				c.Content))
		}
	}

	if len(activity) > 0 {
		b.WriteString("\n" + styles.SectionStyle.Render("Activity"))
		for _, e := range activity {
			actor := "someone"
			if e.User != nil {
				actor = e.User.Name
			}
			line := fmt.Sprintf("\n%s %s", actor, e.Action)
			if e.FieldChanged != nil {
				line += " " + *e.FieldChanged
				if e.OldValue != nil && e.NewValue != nil {
					line += fmt.Sprintf(": %s to %s", *e.OldValue, *e.NewValue)
				}
			}
			line += " " + styles.SubtitleStyle.Render(e.CreatedAt.Format("2006-01-02 15:04"))
			b.WriteString(line)
		}
	}

	fmt.Println(styles.CardStyle.Render(b.String()))
	return nil
}
