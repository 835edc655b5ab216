package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/duos-app/duos/internal/store"
	"github.com/duos-app/duos/internal/webhook"
)

func taskCmd(args []string, configPath string) {
	if len(args) < 1 {
		fatalf("expected a task subcommand (add, list, done, confirm, comment, comments, rm)")
	}
	cfg := loadConfig(configPath)
	st, cleanup := openStore(cfg)
	defer cleanup()

	switch args[0] {
	case "add":
		rest := args[1:]
		var desc, forUser string
		title := rest[:0]
		for i := 0; i < len(rest); i++ {
			switch rest[i] {
			case "--desc":
				if i+1 >= len(rest) {
					fatalf("--desc requires a value")
				}
				desc = rest[i+1]
				i++
			case "--for":
				if i+1 >= len(rest) {
					fatalf("--for requires a username")
				}
				forUser = rest[i+1]
				i++
			default:
				title = append(title, rest[i])
			}
		}
		if len(title) == 0 {
			fatalf("usage: duos task add <title> [--desc <text>] [--for <username>]")
		}

		me := requireUser(cfg)
		assignee := me
		if forUser != "" {
			prof, err := st.ProfileByUsername(forUser)
			if err != nil {
				fatalf("%v", err)
			}
			assignee = prof.ID
		}

		t := store.Task{
			PairID:     requirePair(cfg),
			Title:      strings.Join(title, " "),
			CreatedBy:  me,
			AssignedTo: &assignee,
		}
		if desc != "" {
			t.Description = &desc
		}
		created, err := st.CreateTask(t)
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Added task %s: %s\n", created.ID, created.Title)

	case "list":
		tasks, err := st.Tasks(requirePair(cfg))
		if err != nil {
			fatalf("%v", err)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks yet.")
			return
		}
		for _, t := range tasks {
			fmt.Println(taskLine(t))
		}

	case "done":
		if len(args) != 2 {
			fatalf("usage: duos task done <id>")
		}
		t, err := st.CompleteTask(args[1])
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Completed: %s (waiting for your partner to confirm)\n", t.Title)

	case "confirm":
		if len(args) != 2 {
			fatalf("usage: duos task confirm <id>")
		}
		t, err := st.ConfirmTask(args[1], requireUser(cfg))
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Confirmed: %s\n", t.Title)
		notifyWebhook(cfg, webhook.Event{
			Kind:   "task.confirmed",
			TaskID: t.ID,
			Label:  t.Title,
			At:     time.Now(),
		})

	case "comment":
		if len(args) < 3 {
			fatalf("usage: duos task comment <id> <text>")
		}
		c, err := st.AddComment(args[1], requireUser(cfg), strings.Join(args[2:], " "))
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Comment %s added\n", c.ID)

	case "comments":
		if len(args) != 2 {
			fatalf("usage: duos task comments <id>")
		}
		comments, err := st.Comments(args[1])
		if err != nil {
			fatalf("%v", err)
		}
		if len(comments) == 0 {
			fmt.Println("No comments yet.")
			return
		}
		for _, c := range comments {
			name := c.UserID
			if prof, err := st.ProfileByID(c.UserID); err == nil {
				name = prof.Username
			}
			fmt.Printf("[%s] %s: %s\n", c.CreatedAt.Local().Format("Jan 2 15:04"), name, c.Message)
		}

	case "rm":
		if len(args) != 2 {
			fatalf("usage: duos task rm <id>")
		}
		if err := st.DeleteTask(args[1]); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Deleted task %s\n", args[1])

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown task subcommand %q\n", args[0])
		os.Exit(1)
	}
}

// taskLine formats one task for the list view: id, a state marker, title,
// and how far the handshake has progressed.
func taskLine(t store.Task) string {
	mark := "[ ]"
	state := ""
	switch {
	case t.ConfirmedAt != nil:
		mark = "[*]"
		state = "confirmed"
	case t.Completed:
		mark = "[x]"
		state = "awaiting confirmation"
	}

	line := fmt.Sprintf("%s %s  %s", t.ID, mark, t.Title)
	if t.Description != nil && *t.Description != "" {
		line += " - " + *t.Description
	}
	if state != "" {
		line += " (" + state + ")"
	}
	return line
}
