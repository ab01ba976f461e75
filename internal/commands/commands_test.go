package commands_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"

	"htask/internal/commands"
	"htask/internal/config"
	"htask/internal/exitcode"
	"htask/internal/service"
	"htask/internal/store"
	"htask/internal/testutil"
)

// runCommand is a helper to run a command over a FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	var st *store.Store
	if svc != nil {
		st = store.New(svc)
	}
	return runWithConfig(t, cmd, cfg, st, args)
}

// runWithConfig parses args with the command's flags and runs it.
func runWithConfig(t *testing.T, cmd commands.Command, cfg *config.Config, st *store.Store, args []string) (stdout, stderr string, code int) {
	t.Helper()

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	code = cmd.Run(context.Background(), cfg, st, fs.Args(), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func find(t *testing.T, name string) commands.Command {
	t.Helper()
	cmd, ok := commands.DefaultRegistry.Find(name)
	if !ok {
		t.Fatalf("command %q not registered", name)
	}
	return cmd
}

// seeded returns a service with one habit, one daily with a checklist and two todos.
func seeded() *testutil.FakeService {
	svc := testutil.NewFakeService("user-1")
	svc.AddTask(service.Task{ID: "h1", Type: service.Habit, Text: "Stretch"})
	svc.AddTask(service.Task{
		ID:   "d1",
		Type: service.Daily,
		Text: "Read",
		Checklist: []service.ChecklistItem{
			{ID: "i1", Text: "Chapter 1"},
			{ID: "i2", Text: "Chapter 2"},
		},
	})
	svc.AddTask(service.Task{ID: "t1", Type: service.Todo, Text: "Buy milk"})
	svc.AddTask(service.Task{ID: "t2", Type: service.Todo, Text: "Buy eggs"})
	svc.SetOrder(service.Todo, "t2", "t1")
	return svc
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "htask 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "htask add", "htask unlink-all", "Task references:"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for list command
func TestListCommand_AllTypes(t *testing.T) {
	stdout, stderr, code := runCommand(t, find(t, "list"), seeded(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "------------\nHabits\n------------\n" +
		"   h1  Stretch\n" +
		"------------\nDailies\n------------\n" +
		"   d1  [ ] Read\n" +
		"         1. [ ] Chapter 1\n" +
		"         2. [ ] Chapter 2\n" +
		"------------\nTo-dos\n------------\n" +
		"   t1  [ ] Buy eggs\n" +
		"   t2  [ ] Buy milk\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_TypeFilter(t *testing.T) {
	stdout, stderr, code := runCommand(t, find(t, "list"), seeded(), []string{"--type", "todos"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "------------\nTo-dos\n------------\n   t1  [ ] Buy eggs\n   t2  [ ] Buy milk\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_UnknownType(t *testing.T) {
	_, stderr, code := runCommand(t, find(t, "list"), seeded(), []string{"--type", "quest"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown task type: quest\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestListCommand_Completed(t *testing.T) {
	svc := seeded()
	svc.AddTask(service.Task{ID: "c1", Type: service.Todo, Text: "Done already", Completed: true})

	stdout, _, code := runCommand(t, find(t, "list"), svc, []string{"--type", "todo", "--completed"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "------------\nTo-dos\n------------\n   t1  [ ] Buy eggs\n   t2  [ ] Buy milk\n" +
		"------------\nCompleted\n------------\n   c1  [x] Done already\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	stdout, stderr, code := runCommand(t, find(t, "list"), testutil.NewFakeService("user-1"), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	stdout, _, code := runCommand(t, find(t, "list"), testutil.NewFakeService("user-1"), nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	// Quiet mode should suppress "no tasks found"
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := seeded()
	svc.UserTasksErr = errors.New("connection refused")

	stdout, stderr, code := runCommand(t, find(t, "list"), svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	expected := "error: backend error: connection refused\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestListCommand_Unauthorized(t *testing.T) {
	svc := seeded()
	svc.UserErr = service.ErrUnauthorized

	_, stderr, code := runCommand(t, find(t, "list"), svc, nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: auth error:") {
		t.Errorf("expected auth error, got %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := seeded()

	stdout, stderr, code := runCommand(t, find(t, "add"), svc, []string{"Buy", "groceries"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok t1\n" {
		t.Errorf("expected 'ok t1\\n', got %q", stdout)
	}

	tasks, _ := svc.UserTasks(context.Background())
	created := tasks[len(tasks)-1]
	if created.Text != "Buy groceries" || created.Type != service.Todo {
		t.Errorf("expected todo 'Buy groceries', got %+v", created)
	}
}

func TestAddCommand_WithTypeNotesAndChecklist(t *testing.T) {
	svc := seeded()

	args := []string{"--type", "daily", "--notes", "before bed", "--check", "one", "--check", "", "--check", "two", "Floss"}
	stdout, stderr, code := runCommand(t, find(t, "create"), svc, args, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok d1\n" {
		t.Errorf("expected 'ok d1\\n', got %q", stdout)
	}

	tasks, _ := svc.UserTasks(context.Background())
	created := tasks[len(tasks)-1]
	if created.Type != service.Daily || created.Notes != "before bed" {
		t.Errorf("expected daily with notes, got %+v", created)
	}
	if len(created.Checklist) != 2 {
		t.Errorf("expected 2 checklist items, got %+v", created.Checklist)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	stdout, stderr, code := runCommand(t, find(t, "add"), seeded(), []string{"Buy", "milk"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_NoText(t *testing.T) {
	stdout, stderr, code := runCommand(t, find(t, "add"), seeded(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: text required\n" {
		t.Errorf("expected text required error, got %q", stderr)
	}
}

func TestAddCommand_ChecklistOnHabit(t *testing.T) {
	svc := seeded()

	_, stderr, code := runCommand(t, find(t, "add"), svc, []string{"--type", "habit", "--check", "x", "Walk"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: checklists are only supported on dailies and todos\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.CallCount("CreateUserTasks") != 0 {
		t.Error("expected no create request")
	}
}

// Tests for edit command
func TestEditCommand_Text(t *testing.T) {
	svc := seeded()

	stdout, stderr, code := runCommand(t, find(t, "edit"), svc, []string{"--text", "Buy oat milk", "t2"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	task, _ := svc.ServerTask("t1")
	if task.Text != "Buy oat milk" {
		t.Errorf("expected updated text, got %q", task.Text)
	}
}

func TestEditCommand_ClearNotes(t *testing.T) {
	svc := testutil.NewFakeService("user-1")
	svc.AddTask(service.Task{ID: "t1", Type: service.Todo, Text: "Buy milk", Notes: "two liters"})
	svc.SetOrder(service.Todo, "t1")
	st := store.New(svc)
	cfg := &config.Config{Dir: t.TempDir()}

	_, stderr, code := runWithConfig(t, find(t, "edit"), cfg, st, []string{"--notes", "", "t1"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	task, _ := svc.ServerTask("t1")
	if task.Notes != "" {
		t.Errorf("expected notes cleared on the server, got %q", task.Notes)
	}
	local, _ := st.FindTask("t1")
	if local.Notes != "" {
		t.Errorf("expected notes cleared locally, got %q", local.Notes)
	}
}

func TestEditCommand_NothingToChange(t *testing.T) {
	_, stderr, code := runCommand(t, find(t, "edit"), seeded(), []string{"t1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: nothing to change (use --text or --notes)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for up, down and done commands
func TestDoneCommand_Success(t *testing.T) {
	svc := seeded()
	svc.ScoreDelta = 1

	stdout, stderr, code := runCommand(t, find(t, "done"), svc, []string{"t1"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
	if svc.CallCount("ScoreTask") != 1 {
		t.Errorf("expected one score request, got calls %v", svc.Calls())
	}
	task, _ := svc.ServerTask("t2")
	if task.Value != 1 {
		t.Errorf("expected t2 (listed first) scored, got value %v", task.Value)
	}
}

func TestDoneCommand_Habit(t *testing.T) {
	_, stderr, code := runCommand(t, find(t, "done"), seeded(), []string{"h1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: only dailies and todos can be completed (use up)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_NoRef(t *testing.T) {
	stdout, stderr, code := runCommand(t, find(t, "done"), seeded(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected task reference required error, got %q", stderr)
	}
}

func TestDoneCommand_OutOfRange(t *testing.T) {
	_, stderr, code := runCommand(t, find(t, "done"), seeded(), []string{"t9"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task number out of range: t9\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDownCommand_PrintsScore(t *testing.T) {
	svc := seeded()
	svc.ScoreDelta = 0.5

	stdout, stderr, code := runCommand(t, find(t, "down"), svc, []string{"h", "1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	expected := "delta -0.50  hp 0.0  mp 0.0  exp 0  gp 0.00\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestUpCommand_UnknownID(t *testing.T) {
	_, stderr, code := runCommand(t, find(t, "up"), seeded(), []string{"nope"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: not found: task nope\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for check and collapse commands
func TestCheckCommand(t *testing.T) {
	svc := seeded()

	_, stderr, code := runCommand(t, find(t, "check"), svc, []string{"d1", "2"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	task, _ := svc.ServerTask("d1")
	if task.Checklist[0].Completed || !task.Checklist[1].Completed {
		t.Errorf("expected only the second item completed, got %+v", task.Checklist)
	}
}

func TestCheckCommand_ItemOutOfRange(t *testing.T) {
	_, stderr, code := runCommand(t, find(t, "check"), seeded(), []string{"d1", "3"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: checklist item out of range: 3\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestCollapseCommand(t *testing.T) {
	svc := seeded()

	_, stderr, code := runCommand(t, find(t, "collapse"), svc, []string{"d1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	task, _ := svc.ServerTask("d1")
	if !task.CollapseChecklist {
		t.Error("expected checklist collapsed on the server")
	}
}

// Tests for rm and clear commands
func TestRmCommand(t *testing.T) {
	svc := seeded()

	stdout, stderr, code := runCommand(t, find(t, "rm"), svc, []string{"t1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if _, ok := svc.ServerTask("t2"); ok {
		t.Error("expected t2 deleted")
	}
}

func TestRmCommand_ChallengeTask(t *testing.T) {
	svc := testutil.NewFakeService("user-1")
	svc.AddTask(service.Task{ID: "x1", Type: service.Habit, Challenge: &service.ChallengeLink{ID: "c1"}})

	_, stderr, code := runCommand(t, find(t, "rm"), svc, []string{"h1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task belongs to a challenge (use: htask unlink x1)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestClearCommand(t *testing.T) {
	svc := seeded()

	_, _, code := runCommand(t, find(t, "clear"), svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if svc.CallCount("ClearCompletedTodos") != 1 {
		t.Errorf("expected clear request, got calls %v", svc.Calls())
	}
}

// Tests for move command
func TestMoveCommand(t *testing.T) {
	svc := seeded()

	stdout, stderr, code := runCommand(t, find(t, "move"), svc, []string{"t2", "1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	expected := "   t1  [ ] Buy milk\n   t2  [ ] Buy eggs\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestMoveCommand_Bottom(t *testing.T) {
	svc := seeded()

	stdout, _, code := runCommand(t, find(t, "move"), svc, []string{"t1", "0"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   t1  [ ] Buy milk\n   t2  [ ] Buy eggs\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestMoveCommand_InvalidPosition(t *testing.T) {
	_, stderr, code := runCommand(t, find(t, "move"), seeded(), []string{"t1", "top"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid position: top\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for group and challenge commands
func TestGroupCommand_TasksAndAssign(t *testing.T) {
	svc := testutil.NewFakeService("leader")
	svc.AddGroupTask("g1", service.Task{ID: "gt1", Type: service.Todo, Text: "Shared"})

	stdout, _, code := runCommand(t, find(t, "group"), svc, []string{"tasks", "g1"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "gt1  todo    [ ] Shared\n" {
		t.Errorf("unexpected group tasks output %q", stdout)
	}

	stdout, _, code = runCommand(t, find(t, "group"), svc, []string{"assign", "gt1", "member-1"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "gt1  todo    [ ] Shared\n        assigned: member-1\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestGroupCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no subcommand", nil, "error: subcommand required\n"},
		{"unknown subcommand", []string{"explode", "g1"}, "error: unknown group subcommand: explode\n"},
		{"missing group id", []string{"tasks"}, "error: group id required\n"},
		{"missing user id", []string{"approve", "gt1"}, "error: task id and user id required\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := runCommand(t, find(t, "group"), testutil.NewFakeService("leader"), tt.args, false)
			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
		})
	}
}

func TestGroupCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService("leader")
	svc.GroupErr = errors.New("timeout")

	_, stderr, code := runCommand(t, find(t, "group"), svc, []string{"approvals", "g1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: timeout\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestChallengeCommand_Empty(t *testing.T) {
	stdout, _, code := runCommand(t, find(t, "challenge"), testutil.NewFakeService("user-1"), []string{"tasks", "c1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}
}

func TestUnlinkCommand(t *testing.T) {
	svc := testutil.NewFakeService("user-1")
	svc.AddTask(service.Task{ID: "x1", Type: service.Habit, Challenge: &service.ChallengeLink{ID: "c1"}})

	_, stderr, code := runCommand(t, find(t, "unlink"), svc, []string{"--keep", "remove", "h1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if svc.CallCount("UnlinkOneTask:remove") != 1 {
		t.Errorf("expected unlink with remove, got calls %v", svc.Calls())
	}
}

func TestUnlinkCommand_InvalidKeep(t *testing.T) {
	_, stderr, code := runCommand(t, find(t, "unlink"), seeded(), []string{"--keep", "keep-all", "h1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid --keep value: keep-all (want keep or remove)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestUnlinkAllCommand_DefaultKeep(t *testing.T) {
	svc := seeded()

	_, _, code := runCommand(t, find(t, "unlink-all"), svc, []string{"c1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if svc.CallCount("UnlinkAllTasks:keep-all") != 1 {
		t.Errorf("expected unlink-all with keep-all, got calls %v", svc.Calls())
	}
}
