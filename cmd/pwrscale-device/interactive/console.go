// Package interactive provides the interactive command-line interface
// of pwrscale-device.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/mash-protocol/pwrscale-go/pkg/model"
	"github.com/mash-protocol/pwrscale-go/pkg/pwrscale"
)

// Target is a device the console can address, together with its slot.
type Target struct {
	Device *model.Device
	Scale  *pwrscale.Scale
}

// Console handles interactive mode for pwrscale-device.
type Console struct {
	targets []Target
	rl      *readline.Instance
}

// New creates a console reading from the terminal.
func New() (*Console, error) {
	return newConsole(&readline.Config{})
}

func newConsole(cfg *readline.Config) (*Console, error) {
	cfg.Prompt = "pwrscale> "
	cfg.InterruptPrompt = "^C"
	cfg.EOFPrompt = "exit"

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{rl: rl}, nil
}

// SetTargets sets the devices the console operates on.
func (c *Console) SetTargets(targets []Target) {
	c.targets = targets
}

// Stdout returns a writer that coordinates with the readline prompt.
// Use it for log output so that logs do not corrupt the input line.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run starts the interactive command loop. It calls cancel when the user
// quits or closes the input, and returns as soon as ctx is done.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	var closeOnce sync.Once
	closeRL := func() { closeOnce.Do(func() { c.rl.Close() }) }
	defer closeRL()

	// Closing readline unblocks a pending Readline on shutdown.
	stop := context.AfterFunc(ctx, closeRL)
	defer stop()

	c.Execute(c.rl.Stdout(), "help")

	for {
		line, err := c.rl.Readline()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		if !c.Execute(c.rl.Stdout(), line) {
			cancel()
			return
		}
	}
}

// Execute runs one command line, writing its output to w. It returns false
// when the command asks to quit.
func (c *Console) Execute(w io.Writer, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		printHelp(w)

	case "ls", "list":
		c.cmdList(w, args)

	case "get", "read", "r":
		c.cmdGet(w, args)

	case "set", "write", "w":
		c.cmdSet(w, args)

	case "signal", "sig":
		c.cmdSignal(w, args)

	case "status":
		c.cmdStatus(w)

	case "quit", "exit", "q":
		fmt.Fprintln(w, "Exiting...")
		return false

	default:
		fmt.Fprintf(w, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `
pwrscale Device Commands:
  Properties:
    ls [device]              - List properties with access and value
    get <path>               - Read a property
    set <path> <value>       - Write a property

  Policies:
    status                   - Show the active policy of every device
    signal <device|all> <s>  - Deliver sleep, wake, busy or idle

  General:
    help                     - Show this help
    quit                     - Exit

  Path Format:
    device/group/.../name - e.g., gpu0/pwrscale/policy
    The device can be omitted when only one device is managed.`)
}

// resolve splits a console path into its target and the property path.
func (c *Console) resolve(p string) (Target, string, error) {
	p = strings.Trim(p, "/")
	head, rest, _ := strings.Cut(p, "/")

	for _, t := range c.targets {
		if t.Device.ID() == head {
			return t, rest, nil
		}
	}
	if len(c.targets) == 1 {
		return c.targets[0], p, nil
	}
	return Target{}, "", fmt.Errorf("unknown device %q", head)
}

func (c *Console) cmdList(w io.Writer, args []string) {
	targets := c.targets
	if len(args) > 0 {
		t, _, err := c.resolve(args[0])
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return
		}
		targets = []Target{t}
	}

	for _, t := range targets {
		id := t.Device.ID()
		_ = t.Device.Properties().Walk(func(p string, attr *model.Attribute) error {
			access := attr.Metadata().Access
			value := "-"
			if access.CanRead() {
				v, err := attr.Show()
				if err != nil {
					value = "<" + err.Error() + ">"
				} else {
					value = v
				}
			}
			fmt.Fprintf(w, "  %-2s %-36s %s\n", access.String(), id+"/"+p, value)
			return nil
		})
	}
}

func (c *Console) cmdGet(w io.Writer, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(w, "Usage: get <path>")
		fmt.Fprintln(w, "  Example: get gpu0/pwrscale/avail_policies")
		return
	}

	t, p, err := c.resolve(args[0])
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	value, err := t.Device.Properties().Read(p)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "%s = %s\n", p, value)
}

func (c *Console) cmdSet(w io.Writer, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(w, "Usage: set <path> <value>")
		fmt.Fprintln(w, "  Example: set gpu0/pwrscale/policy trace")
		return
	}

	t, p, err := c.resolve(args[0])
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	value := strings.Trim(strings.Join(args[1:], " "), "\"'")
	if err := t.Device.Properties().Write(p, value); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "%s <- %s\n", p, value)

	if p == pwrscale.PathPolicy {
		fmt.Fprintf(w, "Active policy: %s\n", t.Scale.PolicyName())
	}
}

func (c *Console) cmdSignal(w io.Writer, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(w, "Usage: signal <device|all> <sleep|wake|busy|idle>")
		return
	}

	sig, err := pwrscale.ParseSignal(args[1])
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	targets := c.targets
	if args[0] != "all" {
		t, _, err := c.resolve(args[0])
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return
		}
		targets = []Target{t}
	}

	for _, t := range targets {
		if t.Scale.Dispatch(sig) {
			fmt.Fprintf(w, "%s: %s -> %s\n", t.Device.ID(), sig, t.Scale.PolicyName())
		} else {
			fmt.Fprintf(w, "%s: %s not handled (policy %s)\n", t.Device.ID(), sig, t.Scale.PolicyName())
		}
	}
}

func (c *Console) cmdStatus(w io.Writer) {
	if len(c.targets) == 0 {
		fmt.Fprintln(w, "No devices")
		return
	}
	for _, t := range c.targets {
		id := t.Scale.AttachmentID()
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "  %-10s policy=%-12s attachment=%s\n", t.Device.ID(), t.Scale.PolicyName(), id)
	}
}
