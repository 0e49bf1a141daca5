package internal

import (
	"bufio"
	"fmt"
	"io"
)

// Shell owns the blocking prompt I/O the session itself never performs.
// The driving loop calls Run whenever the session stops; Run returns
// once the session is running again or the operator quits.
type Shell struct {
	session *Session
	in      *bufio.Scanner
	out     io.Writer
	prompt  string
}

// NewShell creates a shell reading operator commands from in.
func NewShell(session *Session, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		session: session,
		in:      bufio.NewScanner(in),
		out:     out,
		prompt:  "wl debug $ ",
	}
}

// Run prompts for commands while the session is stopped. End of input
// is treated as quit.
func (s *Shell) Run() error {
	for s.session.Stopped() && !s.session.Quit() {
		fmt.Fprint(s.out, s.prompt)
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return fmt.Errorf("failed to read command: %w", err)
			}
			return s.session.Command("quit")
		}
		if err := s.session.Command(s.in.Text()); err != nil {
			fmt.Fprintln(s.out, err)
		}
	}
	return nil
}
