package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bizmodelai/bizmodelai/internal/services"
)

const TypeResultsEmail = "email:results"

// EmailSender delivers a rendered email. The SMTP or provider integration
// plugs in here; LogSender is the default for environments without one.
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// LogSender writes the email to the log instead of delivering it.
type LogSender struct{}

func (LogSender) SendEmail(to, subject, body string) error {
	log.Printf("jobs: email to=%s subject=%q body=%q", to, subject, body)
	return nil
}

type resultsEmailPayload struct {
	To        string `json:"to"`
	AttemptID string `json:"attempt_id"`
}

// Manager owns the asynq client and worker for the results-email queue.
type Manager struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewManager(redisURL string) *Manager {
	redisOpt := asynq.RedisClientOpt{Addr: strings.TrimPrefix(redisURL, "redis://")}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"default": 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Printf("jobs: task failed: type=%s err=%v", task.Type(), err)
		}),
	})
	return &Manager{
		client: asynq.NewClient(redisOpt),
		server: server,
		mux:    asynq.NewServeMux(),
	}
}

// QueueResultsEmail enqueues the "your results are ready" intent. It
// implements services.ResultsNotifier.
func (m *Manager) QueueResultsEmail(to, attemptID string) error {
	payload, err := json.Marshal(resultsEmailPayload{To: to, AttemptID: attemptID})
	if err != nil {
		return fmt.Errorf("marshal results email payload: %w", err)
	}
	task := asynq.NewTask(TypeResultsEmail, payload)
	_, err = m.client.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Timeout(60*time.Second),
	)
	if err != nil {
		return fmt.Errorf("enqueue results email: %w", err)
	}
	return nil
}

var _ services.ResultsNotifier = (*Manager)(nil)

func (m *Manager) RegisterHandlers(sender EmailSender) {
	if sender == nil {
		sender = LogSender{}
	}
	m.mux.HandleFunc(TypeResultsEmail, handleResultsEmail(sender))
}

// Start runs the worker loop until Stop is called.
func (m *Manager) Start() error {
	return m.server.Run(m.mux)
}

func (m *Manager) Stop() {
	m.server.Stop()
	m.server.Shutdown()
	_ = m.client.Close()
}

func handleResultsEmail(sender EmailSender) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var p resultsEmailPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("unmarshal results email payload: %w", err)
		}
		subject := "Your business model results are ready"
		body := fmt.Sprintf("Your quiz results are ready. Open attempt %s to see which business models fit you best.", p.AttemptID)
		if err := sender.SendEmail(p.To, subject, body); err != nil {
			return fmt.Errorf("send results email to %s: %w", p.To, err)
		}
		return nil
	}
}
