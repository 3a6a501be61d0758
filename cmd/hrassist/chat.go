package main

import (
	"bufio"
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skillsys/hrassist/pkg/chat"
	"github.com/skillsys/hrassist/pkg/hr"
	"github.com/skillsys/hrassist/pkg/presenter"
)

var chatCmd = withTracing(&cobra.Command{
	Use:   "chat",
	Short: "Talk to the HR assistant in the terminal",
	Long: `Start an interactive chat with the HR assistant. The assistant can search
the employee directory and read skills. Type "exit" to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		client, err := requireAnthropic(cfg)
		if err != nil {
			return err
		}
		svc, err := newSkillService(ctx, cfg)
		if err != nil {
			return err
		}
		conn, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		sessionID, _ := cmd.Flags().GetString("session")
		service := newChatService(client, conn, svc, hr.NewStore(conn), cfg)
		return runChat(ctx, service, bufio.NewScanner(cmd.InOrStdin()), sessionID)
	},
})

// terminalSink renders chat events as they arrive
type terminalSink struct {
	sessionID string
	streamed  bool
}

func (s *terminalSink) Send(event string, data any) error {
	fields, _ := data.(map[string]string)
	switch event {
	case chat.EventSession:
		s.sessionID = fields["sessionId"]
	case chat.EventMessage:
		presenter.Stream(fields["text"])
		s.streamed = true
	case chat.EventResult:
		if !s.streamed {
			presenter.Stream(fields["text"])
		}
		presenter.Stream("\n\n")
	case chat.EventError:
		if s.streamed {
			presenter.Stream("\n")
		}
		presenter.Error(errors.New(fields["error"]), "assistant")
	}
	return nil
}

type chatTurner interface {
	Stream(ctx context.Context, req chat.Request, sink chat.Sink) error
}

func runChat(ctx context.Context, service chatTurner, input *bufio.Scanner, sessionID string) error {
	presenter.Section("HR assistant")
	presenter.Info(`Type "exit" to quit.`)

	for {
		presenter.Stream("> ")
		if !input.Scan() {
			presenter.Stream("\n")
			return input.Err()
		}

		line := strings.TrimSpace(input.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		sink := &terminalSink{sessionID: sessionID}
		if err := service.Stream(ctx, chat.Request{Message: line, SessionID: sessionID}, sink); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		sessionID = sink.sessionID
	}
}

func init() {
	chatCmd.Flags().String("session", "", "Resume an existing chat session")
}
