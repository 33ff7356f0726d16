package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"event-manager-api/core/config"
	"event-manager-api/core/constants"
	"event-manager-api/core/logger"
	"event-manager-api/core/mail"
	"event-manager-api/core/metrics"
	"event-manager-api/core/queue"
	"event-manager-api/core/utils"
	"event-manager-api/modules/notification/dto"
	"event-manager-api/modules/notification/entity"
	userEntity "event-manager-api/modules/user/entity"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrRecipientNotFound means the invitee no longer exists. It is not retried.
var ErrRecipientNotFound = stderrors.New("recipient not found")

// TransientDeliveryError wraps one failed send attempt.
type TransientDeliveryError struct {
	Attempt int
	Err     error
}

func (e *TransientDeliveryError) Error() string {
	return fmt.Sprintf("delivery attempt %d failed: %v", e.Attempt, e.Err)
}

func (e *TransientDeliveryError) Unwrap() error {
	return e.Err
}

type Recipients interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*userEntity.User, error)
}

type DeliveryRecorder interface {
	RecordDelivery(ctx context.Context, delivery *entity.Delivery) error
}

type Inbox interface {
	Create(ctx context.Context, req *dto.CreateNotificationRequest) error
}

// Enqueuer hands a task to a durable queue. *queue.Client satisfies it.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload any) (string, error)
}

const (
	maxAttemptsLimit = 10
	maxBackoff       = 5 * time.Minute
)

type Options struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	AttemptTimeout time.Duration
	Concurrency    int
}

func OptionsFromConfig(cfg config.NotificationConfig) Options {
	return Options{
		MaxAttempts:    cfg.MaxAttempts,
		BaseDelay:      cfg.BaseDelay,
		AttemptTimeout: cfg.AttemptTimeout,
		Concurrency:    cfg.Concurrency,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 3
	}
	if o.MaxAttempts > maxAttemptsLimit {
		o.MaxAttempts = maxAttemptsLimit
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = time.Second
	}
	if o.AttemptTimeout <= 0 {
		o.AttemptTimeout = 10 * time.Second
	}
	if o.Concurrency < 1 {
		o.Concurrency = 4
	}
	return o
}

// Dispatcher sends event invitations outside the request that caused them.
// Each recipient is handled on its own: a failure for one never affects
// another, and nothing here touches attendee membership.
type Dispatcher struct {
	users      Recipients
	transport  mail.Transport
	deliveries DeliveryRecorder
	inbox      Inbox
	enqueuer   Enqueuer
	opts       Options
	sleep      func(ctx context.Context, d time.Duration) error
	wg         sync.WaitGroup
}

// NewDispatcher builds an inline dispatcher. deliveries and inbox may be nil.
func NewDispatcher(users Recipients, transport mail.Transport, deliveries DeliveryRecorder, inbox Inbox, opts Options) *Dispatcher {
	return &Dispatcher{
		users:      users,
		transport:  transport,
		deliveries: deliveries,
		inbox:      inbox,
		opts:       opts.withDefaults(),
		sleep:      sleepContext,
	}
}

// UseQueue routes dispatches through asynq instead of local goroutines.
func (d *Dispatcher) UseQueue(enqueuer Enqueuer) {
	d.enqueuer = enqueuer
}

// SetSleep replaces the backoff wait, for tests.
func (d *Dispatcher) SetSleep(sleep func(ctx context.Context, d time.Duration) error) {
	d.sleep = sleep
}

// Dispatch returns immediately. Delivery runs detached from the caller's context.
func (d *Dispatcher) Dispatch(invite dto.EventInvite, recipientIDs []uuid.UUID) {
	ids := utils.UniqueUUIDs(recipientIDs)
	if len(ids) == 0 {
		return
	}

	if d.enqueuer != nil {
		ids = d.enqueue(invite, ids)
		if len(ids) == 0 {
			return
		}
	}

	d.wg.Add(1)
	metrics.NotificationDispatchesInFlight.Inc()
	go func() {
		defer d.wg.Done()
		defer metrics.NotificationDispatchesInFlight.Dec()
		d.run(context.Background(), invite, ids)
	}()
}

// enqueue submits one task per recipient and returns the ids that could not be queued.
func (d *Dispatcher) enqueue(invite dto.EventInvite, ids []uuid.UUID) []uuid.UUID {
	var rest []uuid.UUID
	for _, id := range ids {
		ctx, cancel := context.WithTimeout(context.Background(), d.opts.AttemptTimeout)
		taskID, err := d.enqueuer.Enqueue(ctx, constants.TaskTypeEventInvite, dto.InviteTask{Invite: invite, RecipientID: id})
		cancel()
		if err != nil {
			logger.Warn("Dispatcher:Enqueue:FallbackInline", "event_id", invite.EventID, "user_id", id, "error", err)
			rest = append(rest, id)
			continue
		}
		logger.Debug("Dispatcher:Enqueue", "event_id", invite.EventID, "user_id", id, "task_id", taskID)
	}
	return rest
}

func (d *Dispatcher) run(ctx context.Context, invite dto.EventInvite, ids []uuid.UUID) {
	var g errgroup.Group
	g.SetLimit(d.opts.Concurrency)
	for _, id := range ids {
		g.Go(func() error {
			_ = d.Deliver(ctx, invite, id)
			return nil
		})
	}
	_ = g.Wait()
}

// Wait blocks until inline dispatches finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Deliver sends one invitation with retries and records the outcome.
// The returned error is informational; it has already been logged.
func (d *Dispatcher) Deliver(ctx context.Context, invite dto.EventInvite, recipientID uuid.UUID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic delivering invite: %v", r)
			logger.Error("Dispatcher:Deliver:Panic", "event_id", invite.EventID, "user_id", recipientID, "panic", r, "stack", string(debug.Stack()))
			metrics.NotificationDeliveriesTotal.WithLabelValues(entity.DeliveryStatusFailed).Inc()
		}
	}()

	job := &delivery{invite: invite, recipientID: recipientID}

	var lastErr error
	attempts := 0
	for attempts < d.opts.MaxAttempts {
		attempts++
		messageID, retry, sendErr := d.attempt(ctx, job)

		if sendErr == nil {
			metrics.NotificationAttemptsTotal.WithLabelValues("success").Inc()
			logger.Info("Dispatcher:Deliver:Sent", "event_id", invite.EventID, "user_id", recipientID, "attempt", attempts, "message_id", messageID)
			d.record(ctx, invite, recipientID, attempts, messageID, nil)
			return nil
		}

		metrics.NotificationAttemptsTotal.WithLabelValues("failure").Inc()
		if !retry {
			d.record(ctx, invite, recipientID, attempts, "", sendErr)
			return sendErr
		}

		lastErr = &TransientDeliveryError{Attempt: attempts, Err: sendErr}
		logger.Warn("Dispatcher:Deliver:AttemptFailed", "event_id", invite.EventID, "user_id", recipientID, "attempt", attempts, "error", sendErr)

		if attempts == d.opts.MaxAttempts {
			break
		}
		if err := d.sleep(ctx, d.backoff(attempts)); err != nil {
			lastErr = stderrors.Join(lastErr, err)
			break
		}
	}

	logger.Error("Dispatcher:Deliver:GaveUp", "event_id", invite.EventID, "user_id", recipientID, "attempts", attempts, "error", lastErr)
	d.record(ctx, invite, recipientID, attempts, "", lastErr)
	return lastErr
}

// delivery carries one recipient's invitation across attempts. msg is set
// once the recipient has been resolved and the invitation rendered.
type delivery struct {
	invite      dto.EventInvite
	recipientID uuid.UUID
	msg         *mail.Message
}

// attempt makes one delivery attempt. The recipient lookup is part of the
// attempt, so a failed lookup is retried like a failed send. retry is false
// for failures another attempt cannot fix.
func (d *Dispatcher) attempt(ctx context.Context, job *delivery) (messageID string, retry bool, err error) {
	if job.msg == nil {
		user, lookupErr := d.lookup(ctx, job.recipientID)
		if lookupErr != nil {
			return "", !stderrors.Is(lookupErr, ErrRecipientNotFound), lookupErr
		}

		d.notifyInApp(ctx, job.invite, job.recipientID)

		msg, renderErr := RenderInvite(job.invite, user.Name, user.Email)
		if renderErr != nil {
			logger.Error("Dispatcher:Deliver:Render", "event_id", job.invite.EventID, "user_id", job.recipientID, "error", renderErr)
			return "", false, renderErr
		}
		job.msg = &msg
	}

	attemptCtx, cancel := context.WithTimeout(ctx, d.opts.AttemptTimeout)
	defer cancel()

	messageID, err = d.transport.Send(attemptCtx, *job.msg)
	return messageID, true, err
}

// backoff is the wait after the given failed attempt: base * 2^(attempt-1),
// capped at maxBackoff.
func (d *Dispatcher) backoff(attempt int) time.Duration {
	delay := d.opts.BaseDelay
	for i := 1; i < attempt && delay < maxBackoff; i++ {
		delay *= 2
	}
	return min(delay, maxBackoff)
}

func (d *Dispatcher) lookup(ctx context.Context, recipientID uuid.UUID) (*userEntity.User, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, d.opts.AttemptTimeout)
	defer cancel()

	user, err := d.users.GetUser(lookupCtx, recipientID)
	if err != nil {
		logger.Warn("Dispatcher:Deliver:Lookup", "user_id", recipientID, "error", err)
		return nil, err
	}
	if user == nil {
		logger.Warn("Dispatcher:Deliver:Lookup", "user_id", recipientID, "error", ErrRecipientNotFound)
		return nil, ErrRecipientNotFound
	}
	return user, nil
}

func (d *Dispatcher) notifyInApp(ctx context.Context, invite dto.EventInvite, recipientID uuid.UUID) {
	if d.inbox == nil {
		return
	}

	inboxCtx, cancel := context.WithTimeout(ctx, d.opts.AttemptTimeout)
	defer cancel()

	err := d.inbox.Create(inboxCtx, &dto.CreateNotificationRequest{
		UserID:  recipientID,
		Title:   InviteSubject(invite.Title),
		Message: fmt.Sprintf("%s invited you to %s on %s at %s", invite.OrganizerName, invite.Title, FormatDate(invite.Date), FormatTime(invite.Time)),
		Type:    constants.NotificationTypeEventInvite,
		Data: map[string]any{
			"event_id": invite.EventID,
			"date":     invite.Date,
			"time":     invite.Time,
			"location": invite.Location,
		},
	})
	if err != nil {
		logger.Warn("Dispatcher:Deliver:InApp", "event_id", invite.EventID, "user_id", recipientID, "error", err)
	}
}

func (d *Dispatcher) record(ctx context.Context, invite dto.EventInvite, recipientID uuid.UUID, attempts int, messageID string, cause error) {
	status := entity.DeliveryStatusSent
	lastError := ""
	if cause != nil {
		status = entity.DeliveryStatusFailed
		lastError = cause.Error()
	}
	metrics.NotificationDeliveriesTotal.WithLabelValues(status).Inc()

	if d.deliveries == nil {
		return
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.opts.AttemptTimeout)
	defer cancel()

	err := d.deliveries.RecordDelivery(recordCtx, &entity.Delivery{
		EventID:   invite.EventID,
		UserID:    recipientID,
		Channel:   constants.NotificationChannelEmail,
		Status:    status,
		Attempts:  attempts,
		MessageID: messageID,
		LastError: lastError,
	})
	if err != nil {
		logger.Error("Dispatcher:Deliver:Record", "event_id", invite.EventID, "user_id", recipientID, "error", err)
	}
}

// HandleInviteTask is the asynq handler for queued invitations. Delivery
// failures are recorded, not retried by the queue.
func (d *Dispatcher) HandleInviteTask(ctx context.Context, payload []byte) error {
	var task dto.InviteTask
	if err := queue.DecodePayload(payload, &task); err != nil {
		logger.Error("Dispatcher:HandleInviteTask:Decode", "error", err)
		return err
	}

	_ = d.Deliver(ctx, task.Invite, task.RecipientID)
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
