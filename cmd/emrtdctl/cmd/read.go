package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andrei-cloud/go-emrtd/pkg/bac"
	"github.com/andrei-cloud/go-emrtd/pkg/files"
	"github.com/andrei-cloud/go-emrtd/pkg/mrz"
	"github.com/andrei-cloud/go-emrtd/pkg/pcsc"
	"github.com/andrei-cloud/go-emrtd/pkg/sm"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	readMRZ       string
	readReaderIdx int
	readOutDir    string
)

// readCmd drives a PC/SC reader through BAC and secure messaging, walking
// the LDS1 elementary file catalogue and reporting progress in a bubbletea
// view, one line per step.
var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read an eMRTD over a PC/SC reader using Basic Access Control",
	Long: `Read selects the eMRTD application, performs the BAC handshake keyed by
--mrz, then walks every catalogued elementary file over the resulting
secure messaging session, printing each file's size as it completes.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if readOutDir != "" {
			if err := os.MkdirAll(readOutDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		m := newReadModel(readMRZ, readReaderIdx, readOutDir)

		p := tea.NewProgram(m)
		final, err := p.Run()
		if err != nil {
			return fmt.Errorf("read TUI failed: %w", err)
		}

		rm, _ := final.(readModel)
		if rm.fatalErr != nil {
			return rm.fatalErr
		}

		cmd.Println(rm.summary())

		return nil
	},
}

// stepStatus is how one catalogued file's read attempt ended.
type stepStatus int

const (
	stepPending stepStatus = iota
	stepRunning
	stepOK
	stepFailed
	stepSkipped
)

type stepResult struct {
	file   files.File
	status stepStatus
	bytes  int
	err    error
}

// readModel is the bubbletea model driving the reader walk: one row per
// catalogued file, updated as stepUpdateMsg values arrive from the background
// worker started in Init.
type readModel struct {
	mrzText   string
	readerIdx int
	outDir    string
	steps     []stepResult
	current   int
	done      bool
	fatalErr  error
	msgs      chan tea.Msg
}

func newReadModel(mrzText string, readerIdx int, outDir string) readModel {
	steps := make([]stepResult, len(files.Files))
	for i, f := range files.Files {
		steps[i] = stepResult{file: f, status: stepPending}
	}

	return readModel{
		mrzText:   mrzText,
		readerIdx: readerIdx,
		outDir:    outDir,
		steps:     steps,
		msgs:      make(chan tea.Msg, len(files.Files)+1),
	}
}

type stepUpdateMsg stepResult
type readDoneMsg struct{ err error }

func (m readModel) Init() tea.Cmd {
	return tea.Batch(m.waitForMsg, m.runRead)
}

// waitForMsg bridges the background worker's channel into bubbletea's Cmd
// model: Update re-issues this after every message so the channel keeps
// draining until the worker closes it out with readDoneMsg.
func (m readModel) waitForMsg() tea.Msg {
	return <-m.msgs
}

// runRead performs the full reader session in the background and emits a
// stepUpdateMsg per file plus a trailing readDoneMsg, all over m.msgs.
func (m readModel) runRead() tea.Msg {
	go func() {
		err := driveRead(m.mrzText, m.readerIdx, m.outDir, func(r stepResult) {
			m.msgs <- stepUpdateMsg(r)
		})
		m.msgs <- readDoneMsg{err: err}
	}()

	return nil
}

func (m readModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case stepUpdateMsg:
		for i, s := range m.steps {
			if s.file.Name == msg.file.Name {
				m.steps[i] = stepResult(msg)
				if msg.status == stepRunning {
					m.current = i
				}

				break
			}
		}

		return m, m.waitForMsg
	case readDoneMsg:
		m.done = true
		m.fatalErr = msg.err

		return m, tea.Quit
	}

	return m, nil
}

func (m readModel) View() string {
	var b strings.Builder
	b.WriteString("Reading eMRTD\n\n")

	for _, s := range m.steps {
		b.WriteString(renderStep(s))
		b.WriteString("\n")
	}

	if !m.done {
		b.WriteString("\n(ctrl+c to cancel)\n")
	}

	return b.String()
}

func renderStep(s stepResult) string {
	marker := map[stepStatus]string{
		stepPending: " . ",
		stepRunning: " > ",
		stepOK:      " OK",
		stepFailed:  "ERR",
		stepSkipped: "SKP",
	}[s.status]

	line := fmt.Sprintf("[%s] %-16s", marker, s.file.Name)
	switch s.status {
	case stepOK:
		line += fmt.Sprintf(" %d bytes", s.bytes)
	case stepFailed:
		line += fmt.Sprintf(" %v", s.err)
	}

	return line
}

func (m readModel) summary() string {
	var b strings.Builder
	ok, failed := 0, 0
	for _, s := range m.steps {
		switch s.status {
		case stepOK:
			ok++
		case stepFailed:
			failed++
		}
	}
	fmt.Fprintf(&b, "read complete: %d files read, %d failed", ok, failed)

	return b.String()
}

// driveRead performs the actual reader session: connect, select the eMRTD
// application, run BAC, then walk the catalogue, invoking report after each
// file's attempt.
func driveRead(mrzText string, readerIdx int, outDir string, report func(stepResult)) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	raw, err := mrz.ParseRaw(mrzText)
	if err != nil {
		return fmt.Errorf("invalid MRZ: %w", err)
	}

	reader, err := pcsc.Connect(readerIdx)
	if err != nil {
		return fmt.Errorf("failed to connect to reader: %w", err)
	}
	defer reader.Close() //nolint:errcheck // best-effort cleanup once the read is done

	if res, err := reader.Transceive(ctx, bac.SelectApplication()); err != nil {
		return fmt.Errorf("SELECT AID failed: %w", err)
	} else if !res.Trailer.OK() {
		return fmt.Errorf("SELECT AID rejected: %s", res.Trailer)
	}

	keys, err := bac.Handshake(ctx, reader, raw, nil)
	if err != nil {
		return fmt.Errorf("BAC handshake failed: %w", err)
	}

	session := sm.NewSession(keys)

	for _, f := range files.Files {
		report(stepResult{file: f, status: stepRunning})

		data, err := files.ReadFile(ctx, reader, session, f)
		if err != nil {
			if f.Required {
				report(stepResult{file: f, status: stepFailed, err: err})

				return fmt.Errorf("failed to read required file %s: %w", f.Name, err)
			}

			report(stepResult{file: f, status: stepSkipped, err: err})

			continue
		}

		if outDir != "" {
			path := filepath.Join(outDir, f.Name+".bin")
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}

		report(stepResult{file: f, status: stepOK, bytes: len(data)})
	}

	return nil
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().StringVar(&readMRZ, "mrz", "", "MRZ text to derive BAC keys from")
	readCmd.Flags().IntVar(&readReaderIdx, "reader", 0, "PC/SC reader index, as reported by reader list")
	readCmd.Flags().StringVar(&readOutDir, "out", "", "directory to write each read file's raw bytes into (optional)")

	if err := readCmd.MarkFlagRequired("mrz"); err != nil {
		panic(err)
	}
}
