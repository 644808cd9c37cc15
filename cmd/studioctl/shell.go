package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"

	"github.com/bayup/go-studio/components/studio"
	"github.com/bayup/go-studio/pkg/kvstore"
)

var errQuit = errors.New("studioctl: quit")

type shellCmd struct {
	Tenant   string `default:"local" help:"Tenant id for the session."`
	Template string `default:"t1" help:"Template applied on start."`
	DB       string `type:"path" help:"SQLite file for pages and drafts. Defaults to memory."`
	History  string `type:"path" help:"Readline history file."`
}

func (cmd *shellCmd) Run(ctx context.Context) error {
	var store kvstore.Store = kvstore.NewMemory()
	if cmd.DB != "" {
		db, err := kvstore.OpenSQLite(cmd.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		store = db
	}
	sh, err := newShell(ctx, studio.NewService(studio.Options{
		PageStore: studio.NewKVPageStore(store),
		Drafts:    store,
	}), cmd.Tenant, cmd.Template)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          sh.prompt(),
		HistoryFile:     cmd.History,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("studioctl: init readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(rl.Stdout(), "Use 'exit' or 'quit' to leave the shell.")
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := sh.exec(ctx, line, rl.Stdout()); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(rl.Stderr(), "error: %v\n", err)
		}
		rl.SetPrompt(sh.prompt())
	}
}

// shell drives one tenant's editor sessions from text commands.
type shell struct {
	service *studio.Service
	tenant  string
	page    studio.PageName
}

func newShell(ctx context.Context, service *studio.Service, tenant, templateID string) (*shell, error) {
	sh := &shell{service: service, tenant: tenant, page: studio.PageHome}
	if _, err := service.ApplyTemplate(ctx, studio.ApplyTemplateRequest{TenantID: tenant, TemplateID: templateID}); err != nil {
		return nil, err
	}
	return sh, nil
}

func (sh *shell) key() studio.SessionKey {
	return studio.SessionKey{TenantID: sh.tenant, Page: sh.page}
}

func (sh *shell) prompt() string {
	return fmt.Sprintf("%s/%s> ", sh.tenant, sh.page)
}

func (sh *shell) exec(ctx context.Context, line string, out io.Writer) error {
	line = strings.TrimSpace(line)
	args, err := parseArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	switch args[0] {
	case "help":
		fmt.Fprint(out, shellHelp)
		return nil
	case "exit", "quit":
		return errQuit
	case "template":
		return sh.handleTemplate(ctx, args[1:], out)
	case "page":
		return sh.handlePage(args[1:], out)
	case "tree":
		return sh.handleTree(ctx, out)
	case "add":
		return sh.handleAdd(ctx, args[1:], out)
	case "set":
		return sh.handlePatch(ctx, line, args[1:], out, false)
	case "style":
		return sh.handlePatch(ctx, line, args[1:], out, true)
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: rm <id>")
		}
		return sh.service.RemoveComponent(ctx, sh.key(), args[1])
	case "select":
		if len(args) != 2 {
			return fmt.Errorf("usage: select <id>")
		}
		return sh.service.Select(ctx, sh.key(), args[1])
	case "show":
		return sh.handleShow(ctx, out)
	case "viewport":
		if len(args) != 2 {
			return fmt.Errorf("usage: viewport <desktop|tablet|mobile>")
		}
		return sh.service.Configure(ctx, sh.key(), studio.EditorSettings{Viewport: studio.Viewport(args[1])})
	case "mode":
		if len(args) != 2 {
			return fmt.Errorf("usage: mode <all|individual>")
		}
		return sh.service.Configure(ctx, sh.key(), studio.EditorSettings{EditMode: studio.EditMode(args[1])})
	case "continue":
		if len(args) != 2 {
			return fmt.Errorf("usage: continue <checkout-id>")
		}
		step, err := sh.service.AdvanceCheckout(ctx, sh.key(), args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "step %d: %s\n", step, step.Label())
		return nil
	case "save":
		if err := sh.service.Save(ctx, sh.key()); err != nil {
			return err
		}
		fmt.Fprintf(out, "saved %s\n", sh.page)
		return nil
	case "draft":
		draft, err := sh.service.SaveDraft(ctx, sh.key())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "draft saved at %s\n", draft.SavedAt.Format("15:04:05"))
		return nil
	case "restore":
		ok, err := sh.service.RestoreDraft(ctx, sh.key())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "no draft")
		}
		return nil
	case "render":
		return sh.handleRender(ctx, args[1:], out)
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func (sh *shell) handleTemplate(ctx context.Context, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: template <id>")
	}
	if _, err := sh.service.ApplyTemplate(ctx, studio.ApplyTemplateRequest{TenantID: sh.tenant, TemplateID: args[0]}); err != nil {
		return err
	}
	fmt.Fprintf(out, "applied %s\n", studio.ThemeFor(args[0]).Name)
	return nil
}

func (sh *shell) handlePage(args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: page <name>")
	}
	page := studio.PageName(args[0])
	if !validPage(page) {
		return fmt.Errorf("unknown page %q", args[0])
	}
	sh.page = page
	fmt.Fprintf(out, "page %s\n", page)
	return nil
}

func (sh *shell) handleTree(ctx context.Context, out io.Writer) error {
	state, err := sh.service.State(ctx, sh.key())
	if err != nil {
		return err
	}
	for _, section := range studio.Sections {
		fmt.Fprintf(out, "%s\n", section)
		printNodes(out, state.Schema.Zone(section).Elements, 1, state.SelectedID)
	}
	return nil
}

func printNodes(out io.Writer, nodes []studio.Node, depth int, selected string) {
	for _, n := range nodes {
		marker := " "
		if n.ID == selected {
			marker = "*"
		}
		fmt.Fprintf(out, "%s%s %s [%s]\n", strings.Repeat("  ", depth), marker, n.Type, n.ID)
		printNodes(out, n.Children, depth+1, selected)
	}
}

func (sh *shell) handleAdd(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: add <type> [section|parent-id]")
	}
	req := studio.AddComponentRequest{Key: sh.key(), Type: studio.ComponentType(args[0])}
	if len(args) == 2 {
		switch target := studio.SectionType(args[1]); target {
		case studio.SectionHeader, studio.SectionBody, studio.SectionFooter:
			req.Section = target
		default:
			req.ParentID = args[1]
		}
	}
	node, err := sh.service.AddComponent(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "added %s [%s]\n", node.Type, node.ID)
	return nil
}

func (sh *shell) handlePatch(ctx context.Context, line string, args []string, out io.Writer, styles bool) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set|style <id> key=value...")
	}
	patch := studio.Patch{}
	for _, pair := range args[1:] {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return fmt.Errorf("expected key=value, got %q", pair)
		}
		if styles {
			if patch.Styles == nil {
				patch.Styles = map[string]string{}
			}
			patch.Styles[name] = raw
			continue
		}
		if patch.Props == nil {
			patch.Props = map[string]any{}
		}
		if quotedAssignment(line, name) {
			patch.Props[name] = raw
			continue
		}
		patch.Props[name] = parseValue(raw)
	}
	node, err := sh.service.UpdateComponent(ctx, studio.UpdateComponentRequest{Key: sh.key(), NodeID: args[0], Patch: patch})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "updated %s [%s]\n", node.Type, node.ID)
	return nil
}

func (sh *shell) handleShow(ctx context.Context, out io.Writer) error {
	editor, err := sh.service.Editor(ctx, sh.key())
	if err != nil {
		return err
	}
	node, ok := editor.SelectedComp()
	if !ok {
		fmt.Fprintln(out, "nothing selected")
		return nil
	}
	return writeJSON(out, node)
}

func (sh *shell) handleRender(ctx context.Context, args []string, out io.Writer) error {
	render := sh.service.RenderPreview
	if len(args) >= 1 {
		switch args[0] {
		case "editor":
			render = sh.service.RenderEditor
			args = args[1:]
		case "store":
			render = func(ctx context.Context, key studio.SessionKey) (string, error) {
				return sh.service.RenderStorefront(ctx, key, studio.FirstCheckoutStep)
			}
			args = args[1:]
		}
	}
	html, err := render(ctx, sh.key())
	if err != nil {
		return err
	}
	if len(args) == 2 && args[0] == ">" {
		return os.WriteFile(args[1], []byte(html), 0o644)
	}
	_, err = io.WriteString(out, html)
	return err
}

// parseValue reads JSON literals (numbers, booleans, arrays, objects) and falls back to the
// raw text.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		if f, ok := v.(float64); ok && f == float64(int(f)) {
			return int(f)
		}
		return v
	}
	return raw
}

// parseArgs splits a command line with shell quoting rules.
func parseArgs(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", line, err)
	}
	return args, nil
}

// quotedAssignment reports whether name=value was written with a quoted value, which keeps
// the value a string.
func quotedAssignment(line, name string) bool {
	for _, field := range strings.Fields(line) {
		value, ok := strings.CutPrefix(field, name+"=")
		if ok && (strings.HasPrefix(value, `"`) || strings.HasPrefix(value, `'`)) {
			return true
		}
	}
	return false
}

const shellHelp = `Commands:
  template <id>                 apply a template to every page
  page <name>                   switch page (home, collections, products, about, legal, checkout)
  tree                          list the components of the page
  add <type> [section|parent]   add a component with its defaults
  set <id> key=value...         patch props
  style <id> key=value...       patch styles
  rm <id>                       remove a component and its subtree
  select <id>                   select a component
  show                          print the selected component
  viewport <desktop|tablet|mobile>
  mode <all|individual>
  continue <checkout-id>        advance a checkout block
  save | draft | restore        persist the page or its preview draft
  render [editor|store] [> <file>]
                                preview the live page, the editor canvas or the saved page
  exit
`
