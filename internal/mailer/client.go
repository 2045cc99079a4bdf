package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/frahmantamala/gearguard/internal"
)

var ErrQueueFull = errors.New("mail queue full, please try again later")

type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Message is the body of a Brevo transactional email request.
type Message struct {
	Sender      Recipient   `json:"sender"`
	To          []Recipient `json:"to"`
	Subject     string      `json:"subject"`
	HTMLContent string      `json:"htmlContent"`
	TextContent string      `json:"textContent,omitempty"`
}

type Worker struct {
	ID         int
	WorkerPool chan chan Message
	JobChannel chan Message
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Message, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Message),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, deliver func(Message)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-ctx.Done():
				w.Logger.Debug("mail worker shutting down", "worker_id", w.ID)
				return
			}

			select {
			case msg := <-w.JobChannel:
				w.Logger.Debug("mail worker sending", "worker_id", w.ID, "subject", msg.Subject)
				deliver(msg)
			case <-ctx.Done():
				w.Logger.Debug("mail worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Client delivers mail through the Brevo SMTP API from a bounded worker
// pool. With mail disabled it only logs what it would have sent.
type Client struct {
	enabled bool
	baseURL string
	apiKey  string
	sender  Recipient
	http    *http.Client
	logger  *slog.Logger

	jobQueue   chan Message
	workerPool chan chan Message
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewClient(cfg internal.MailConfig, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	jobQueueSize := cfg.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		enabled: cfg.Enabled,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		sender:  Recipient{Email: cfg.SenderEmail, Name: cfg.SenderName},
		http:    &http.Client{Timeout: timeout},
		logger:  logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan Message, jobQueueSize),
		workerPool: make(chan chan Message, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	if c.enabled {
		c.startWorkerPool()
	}
	return c
}

func (c *Client) startWorkerPool() {
	c.once.Do(func() {
		for i := 0; i < c.maxWorkers; i++ {
			worker := NewWorker(i, c.workerPool, c.logger)
			worker.Start(c.ctx, &c.wg, c.deliver)
		}

		c.wg.Add(1)
		go c.dispatch()

		c.logger.Info("mail worker pool started",
			"max_workers", c.maxWorkers,
			"queue_size", cap(c.jobQueue))
	})
}

func (c *Client) dispatch() {
	defer c.wg.Done()

	for {
		select {
		case msg := <-c.jobQueue:
			select {
			case jobChannel := <-c.workerPool:
				select {
				case jobChannel <- msg:
				case <-c.ctx.Done():
					c.logger.Info("mail dispatcher shutting down")
					return
				}
			case <-c.ctx.Done():
				c.logger.Info("mail dispatcher shutting down")
				return
			}
		case <-c.ctx.Done():
			c.logger.Info("mail dispatcher shutting down")
			return
		}
	}
}

// Shutdown stops the workers. Messages still queued are dropped.
func (c *Client) Shutdown() {
	c.logger.Info("shutting down mail client")
	c.cancel()
	c.wg.Wait()
	c.logger.Info("mail client shutdown complete", "dropped", len(c.jobQueue))
}

// Enqueue hands the message to the pool without waiting for delivery.
func (c *Client) Enqueue(msg Message) error {
	if msg.Sender.Email == "" {
		msg.Sender = c.sender
	}

	if !c.enabled {
		c.logger.Info("mail delivery disabled, message not sent",
			"to", recipients(msg.To),
			"subject", msg.Subject,
			"text", msg.TextContent)
		return nil
	}

	select {
	case c.jobQueue <- msg:
		c.logger.Debug("mail queued", "to", recipients(msg.To), "queue_length", len(c.jobQueue))
		return nil
	default:
		c.logger.Warn("mail queue full, rejecting message",
			"to", recipients(msg.To),
			"queue_capacity", cap(c.jobQueue))
		return ErrQueueFull
	}
}

// Send posts the message synchronously.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if msg.Sender.Email == "" {
		msg.Sender = c.sender
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/smtp/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

func (c *Client) deliver(msg Message) {
	if err := c.Send(c.ctx, msg); err != nil {
		c.logger.Error("mail delivery failed",
			"to", recipients(msg.To),
			"subject", msg.Subject,
			"error", err)
		return
	}
	c.logger.Info("mail delivered", "to", recipients(msg.To), "subject", msg.Subject)
}

func recipients(to []Recipient) string {
	emails := make([]string, 0, len(to))
	for _, r := range to {
		emails = append(emails, r.Email)
	}
	return strings.Join(emails, ",")
}
