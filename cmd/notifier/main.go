package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/opshift-dev/shift-planner/backend/internal/config"
	"github.com/opshift-dev/shift-planner/backend/internal/domain"
	"github.com/opshift-dev/shift-planner/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * mail client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("failed to create mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("failed to connect to mail server", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * database (recipient lookups)
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()
	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"notification_queue",
		true,  // durable
		false, // autoDelete off so the queue survives idle periods
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to declare queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to start consuming", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("message received", slog.String("message", string(msg.Body)))

				var env struct {
					Type string          `json:"type"`
					Data json.RawMessage `json:"data"`
				}
				if err := json.Unmarshal(msg.Body, &env); err != nil {
					logger.Error("failed to decode message", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				switch env.Type {
				case "reset_password":
					var data domain.ResetPasswordData
					if err := json.Unmarshal(env.Data, &data); err != nil {
						logger.Error("failed to decode reset_password data", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					m, err := buildMail(cfg, data.To, "Shift Planner - Password Reset", "./templates/reset_password_otp_email.html", data)
					if err != nil {
						logger.Error("failed to build mail", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := client.DialAndSend(m); err != nil {
						logger.Error("failed to send mail", slog.String("error", err.Error()))
						_ = msg.Nack(false, true) // requeue
						continue
					}

				case "new_account":
					var data domain.NewAccountData
					if err := json.Unmarshal(env.Data, &data); err != nil {
						logger.Error("failed to decode new_account data", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					m, err := buildMail(cfg, data.To, "Shift Planner - Your Account", "./templates/new_account_email.html", data)
					if err != nil {
						logger.Error("failed to build mail", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := client.DialAndSend(m); err != nil {
						logger.Error("failed to send mail", slog.String("error", err.Error()))
						_ = msg.Nack(false, true)
						continue
					}

				case "schedule_published":
					var data domain.SchedulePublishedData
					if err := json.Unmarshal(env.Data, &data); err != nil {
						logger.Error("failed to decode schedule_published data", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}

					recipients, err := repo.GetUsersByIDs(data.RecipientIDs)
					if err != nil {
						logger.Error("failed to resolve recipients", slog.String("error", err.Error()))
						_ = msg.Nack(false, true)
						continue
					}

					// one mail per assigned worker; a single bad address
					// must not requeue the whole fan-out
					failed := 0
					for _, recipient := range recipients {
						m, err := buildMail(cfg, recipient.Email, "Shift Planner - New Schedule", "./templates/schedule_published_email.html", map[string]any{
							"FullName":  recipient.FullName,
							"WeekStart": data.WeekStart,
							"ActorName": data.ActorName,
							"Action":    data.Action,
						})
						if err != nil {
							logger.Error("failed to build mail", slog.String("error", err.Error()), slog.Int64("userID", recipient.ID))
							failed++
							continue
						}
						if err := client.DialAndSend(m); err != nil {
							logger.Error("failed to send mail", slog.String("error", err.Error()), slog.Int64("userID", recipient.ID))
							failed++
							continue
						}
					}
					if failed > 0 {
						logger.Warn("some schedule notifications failed", slog.Int("failed", failed), slog.Int("total", len(recipients)))
					}

				default:
					logger.Error("unsupported message type", slog.String("type", env.Type))
					_ = msg.Nack(false, false)
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("waiting for messages... (press CTRL+C to exit)")
	<-sigChan

	slog.Info("shutting down notifier...")
	cancel()
	wg.Wait()
	slog.Info("notifier stopped")
}

func buildMail(cfg *config.Config, to string, subject string, templatePath string, data any) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(cfg.Email.SMTP.Username); err != nil {
		return nil, fmt.Errorf("failed to set sender: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("failed to set recipient: %w", err)
	}

	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail template: %w", err)
	}
	if err := m.SetBodyHTMLTemplate(tmpl, data); err != nil {
		return nil, fmt.Errorf("failed to set mail body: %w", err)
	}
	m.Subject(subject)

	return m, nil
}
