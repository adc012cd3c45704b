package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/config"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive console for inspecting and nudging a running bridge",
	RunE:  runConsole,
}

// consoleSession dispatches commands by first token, matching the
// teacher's bufio-based REPL but upgraded to readline so the bridge
// console gets line editing and command history.
type consoleSession struct {
	ctx context.Context
	a   *app
	rl  *readline.Instance
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := a.coord.Reload(ctx); err != nil {
		fmt.Println("warning: initial device reload failed:", err)
	}

	rl, err := readline.New("bridge> ")
	if err != nil {
		return fmt.Errorf("starting console: %w", err)
	}
	defer rl.Close()

	s := &consoleSession{ctx: ctx, a: a, rl: rl}
	s.printHelp()
	s.run()
	return nil
}

func (s *consoleSession) run() {
	for {
		line, err := s.rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		}
		if err == io.EOF {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		command := strings.ToLower(parts[0])
		args := parts[1:]

		switch command {
		case "help", "?":
			s.printHelp()
		case "devices", "ls":
			s.cmdDevices()
		case "poll":
			s.cmdPoll()
		case "mode":
			s.cmdMode()
		case "enroll":
			s.cmdEnroll(args)
		case "unenroll":
			s.cmdUnenroll(args)
		case "quit", "exit", "q":
			return
		default:
			fmt.Printf("unknown command: %s (type 'help' for commands)\n", command)
		}
	}
}

func (s *consoleSession) printHelp() {
	fmt.Println(`
Bridge Console Commands:
  devices              - list devices known to the coordinator
  poll                 - run a single poll cycle immediately
  mode                 - show the current auto-mode decision
  enroll <device-id>   - enroll a device in HVAC auto-mode
  unenroll <device-id> - remove a device from HVAC auto-mode
  help                 - show this help
  quit                 - exit the console`)
}

func (s *consoleSession) cmdDevices() {
	ids := s.a.coord.DeviceIDs()
	if len(ids) == 0 {
		fmt.Println("no devices known; restart the console to reload the device list")
		return
	}
	for _, id := range ids {
		state, _ := s.a.coord.State(id)
		enrolled := s.a.automode.IsEnrolled(id)
		fmt.Printf("  %s\tmode=%s\tenrolled=%v\n", id, state.Mode, enrolled)
	}
}

func (s *consoleSession) cmdPoll() {
	if err := s.a.coord.PollOnce(s.ctx); err != nil {
		fmt.Println("poll failed:", err)
		return
	}
	fmt.Println("poll complete")
}

func (s *consoleSession) cmdMode() {
	fmt.Println("current auto-mode:", s.a.automode.CurrentMode())
}

func (s *consoleSession) cmdEnroll(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: enroll <device-id>")
		return
	}
	if err := s.a.automode.Enroll(args[0]); err != nil {
		fmt.Println("enroll failed:", err)
		return
	}
	fmt.Println("enrolled", args[0])
}

func (s *consoleSession) cmdUnenroll(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: unenroll <device-id>")
		return
	}
	if err := s.a.automode.Unenroll(args[0]); err != nil {
		fmt.Println("unenroll failed:", err)
		return
	}
	fmt.Println("unenrolled", args[0])
}
