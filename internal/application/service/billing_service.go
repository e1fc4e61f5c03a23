package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/sangkips/pharmabill-api/internal/config"
	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	"github.com/sangkips/pharmabill-api/internal/domain/enum"
	"github.com/sangkips/pharmabill-api/internal/domain/repository"
	"github.com/sangkips/pharmabill-api/pkg/apperror"
	"github.com/sangkips/pharmabill-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

const (
	defaultNoticeTTL  = 3 * time.Second
	defaultSessionTTL = 12 * time.Hour
)

// BillingService holds the bill composition state of every logged-in
// operator and drives the add-to-bill and submit workflows.
type BillingService struct {
	backends    repository.BackendProvider
	submissions *SubmissionService
	printer     *PrinterService
	debounce    time.Duration
	noticeTTL   time.Duration
	sessionTTL  time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[int64]*billSession
}

// billSession is the state of one operator. All fields except fetcher are
// guarded by mu; fetcher synchronises itself.
type billSession struct {
	mu        sync.Mutex
	book      *entity.BillBook
	draft     *entity.LineItemDraft
	selectSeq uint64
	notices   []entity.Notice
	fetcher   *SuggestionFetcher
	lastSeen  time.Time
}

// NewBillingService creates a new billing service. printer may be nil.
func NewBillingService(
	backends repository.BackendProvider,
	submissions *SubmissionService,
	printer *PrinterService,
	cfg *config.BillingConfig,
) *BillingService {
	s := &BillingService{
		backends:    backends,
		submissions: submissions,
		printer:     printer,
		debounce:    cfg.SuggestionDebounce,
		noticeTTL:   cfg.NoticeTTL,
		sessionTTL:  cfg.SessionTTL,
		now:         time.Now,
		sessions:    make(map[int64]*billSession),
	}
	if s.noticeTTL <= 0 {
		s.noticeTTL = defaultNoticeTTL
	}
	if s.sessionTTL <= 0 {
		s.sessionTTL = defaultSessionTTL
	}
	return s
}

// SessionView is the read model returned after every billing operation
type SessionView struct {
	EmployeeID  int64                 `json:"employee_id"`
	ActiveIndex int                   `json:"active_index"`
	Bills       []entity.BillSlotView `json:"bills"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	Draft       *entity.LineItemDraft `json:"draft"`
	Suggestions SuggestionState       `json:"suggestions"`
	Notices     []entity.Notice       `json:"notices"`
}

// DraftUpdate carries optional edits to the pending line item
type DraftUpdate struct {
	SellPrice *decimal.Decimal
	Quantity  *int
}

// SubmitResult is a completed sale together with the refreshed session
type SubmitResult struct {
	*SubmitOutcome
	Receipt *entity.Receipt `json:"receipt,omitempty"`
	Session *SessionView    `json:"session"`
}

// session returns the operator's session, creating it on first use
func (s *BillingService) session(employeeID int64) *billSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[employeeID]
	if !ok {
		sess = &billSession{
			book:    entity.NewBillBook(),
			fetcher: NewSuggestionFetcher(s.debounce),
		}
		s.sessions[employeeID] = sess
	}
	sess.lastSeen = s.now()
	return sess
}

// StartCleanup drops sessions idle for longer than the session TTL until ctx is done
func (s *BillingService) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.cleanup(); n > 0 {
				log.Printf("Dropped %d idle billing session(s)", n)
			}
		}
	}
}

func (s *BillingService) cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.sessionTTL)
	dropped := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// GetSession returns the operator's current billing state
func (s *BillingService) GetSession(op entity.Operator) *SessionView {
	sess := s.session(op.EmployeeID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.viewLocked(op, sess)
}

// SwitchActive makes another bill tab active. No bill contents change.
func (s *BillingService) SwitchActive(op entity.Operator, index int) (*SessionView, error) {
	sess := s.session(op.EmployeeID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.book.SwitchActive(index); err != nil {
		return nil, err
	}
	return s.viewLocked(op, sess), nil
}

// UpdateCustomerField sets customer name, contact number or payment method of the active bill
func (s *BillingService) UpdateCustomerField(op entity.Operator, field entity.CustomerField, value string) (*SessionView, error) {
	sess := s.session(op.EmployeeID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.book.UpdateCustomerField(field, value); err != nil {
		return nil, err
	}
	return s.viewLocked(op, sess), nil
}

// ClearActive discards the active bill and starts a fresh one in its slot
func (s *BillingService) ClearActive(op entity.Operator) (*SessionView, error) {
	sess := s.session(op.EmployeeID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.book.ResetActive(); err != nil {
		return nil, err
	}
	sess.draft = nil
	return s.viewLocked(op, sess), nil
}

// Suggest runs a debounced medicine lookup for the operator
func (s *BillingService) Suggest(ctx context.Context, op entity.Operator, query string) SuggestionResult {
	sess := s.session(op.EmployeeID)
	return sess.fetcher.Lookup(ctx, s.backends.ForToken(op.Token), query)
}

// SelectMedicine resolves a chosen suggestion into the pending line item.
// If a newer selection finishes first, this one is dropped.
func (s *BillingService) SelectMedicine(ctx context.Context, op entity.Operator, id entity.MedicineID) (*SessionView, error) {
	sess := s.session(op.EmployeeID)

	sess.mu.Lock()
	sess.selectSeq++
	seq := sess.selectSeq
	sess.mu.Unlock()

	draft, err := ResolveMedicine(ctx, s.backends.ForToken(op.Token), id)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if seq != sess.selectSeq {
		return s.viewLocked(op, sess), nil
	}
	if err != nil {
		sess.draft = nil
		s.raiseLocked(sess, enum.NoticeKindError, err.Error())
		return nil, err
	}
	sess.draft = draft
	return s.viewLocked(op, sess), nil
}

// UpdateDraft edits the sell price or quantity of the pending line item
func (s *BillingService) UpdateDraft(op entity.Operator, update DraftUpdate) (*SessionView, error) {
	sess := s.session(op.EmployeeID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.draft == nil {
		return nil, apperror.ErrNoSelection
	}
	applyDraftUpdate(sess.draft, update)
	return s.viewLocked(op, sess), nil
}

// CancelDraft discards the pending line item
func (s *BillingService) CancelDraft(op entity.Operator) *SessionView {
	sess := s.session(op.EmployeeID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.selectSeq++
	sess.draft = nil
	return s.viewLocked(op, sess)
}

// AddItem validates the pending line item and appends it to the active bill.
// A failed check raises an error notice and leaves bill and draft untouched.
func (s *BillingService) AddItem(op entity.Operator, update DraftUpdate) (*SessionView, error) {
	sess := s.session(op.EmployeeID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	draft := &entity.LineItemDraft{}
	if sess.draft != nil {
		cp := *sess.draft
		draft = &cp
	}
	applyDraftUpdate(draft, update)

	item, err := ValidateLineItem(draft)
	if err != nil {
		s.raiseLocked(sess, enum.NoticeKindError, err.Error())
		return nil, err
	}
	if err := sess.book.AppendLineItem(item); err != nil {
		return nil, err
	}

	sess.draft = nil
	sess.selectSeq++
	return s.viewLocked(op, sess), nil
}

// RemoveItem deletes one line item of the active bill
func (s *BillingService) RemoveItem(op entity.Operator, index int) (*SessionView, error) {
	sess := s.session(op.EmployeeID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.book.RemoveLineItem(index); err != nil {
		return nil, err
	}
	return s.viewLocked(op, sess), nil
}

// Submit sends the active bill as a sale. The slot is locked while the
// request is in flight. On success the submitted slot is reset, even if
// another tab became active meanwhile; on failure the bill stays as it was.
func (s *BillingService) Submit(ctx context.Context, op entity.Operator, idempotencyKey string) (*SubmitResult, error) {
	sess := s.session(op.EmployeeID)

	sess.mu.Lock()
	slot, bill, err := sess.book.BeginSubmit()
	if err != nil {
		if errors.Is(err, apperror.ErrEmptyBill) {
			s.raiseLocked(sess, enum.NoticeKindError, err.Error())
		}
		sess.mu.Unlock()
		return nil, err
	}
	sess.mu.Unlock()

	outcome, err := s.submissions.Submit(ctx, &SubmitInput{
		Operator:       op,
		Backend:        s.backends.ForToken(op.Token),
		Slot:           slot,
		Bill:           bill,
		IdempotencyKey: idempotencyKey,
	})

	sess.mu.Lock()
	sess.book.FinishSubmit(slot, err == nil)
	if err != nil {
		s.raiseLocked(sess, enum.NoticeKindError, err.Error())
		sess.mu.Unlock()
		return nil, err
	}
	s.raiseLocked(sess, enum.NoticeKindSuccess, outcome.Message)
	sess.mu.Unlock()

	result := &SubmitResult{SubmitOutcome: outcome}
	if s.printer != nil && !outcome.Replayed {
		receipt, perr := s.printer.PrintSaleReceipt(ctx, op, outcome.Submission, bill)
		if perr != nil {
			log.Printf("Receipt for %s not printed: %v", outcome.Submission.Reference, perr)
		}
		result.Receipt = receipt
	}

	result.Session = s.GetSession(op)
	return result, nil
}

// ListSubmissions returns the operator's own sale submissions
func (s *BillingService) ListSubmissions(ctx context.Context, op entity.Operator, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.SaleSubmission], error) {
	return s.submissions.ListSubmissions(ctx, op.EmployeeID, params)
}

// raiseLocked adds a notice that expires after the notice TTL. Callers hold sess.mu.
func (s *BillingService) raiseLocked(sess *billSession, kind enum.NoticeKind, message string) {
	sess.notices = append(sess.notices, entity.Notice{
		Kind:      kind,
		Message:   message,
		ExpiresAt: s.now().Add(s.noticeTTL),
	})
}

// viewLocked builds the session view and prunes expired notices. Callers hold sess.mu.
func (s *BillingService) viewLocked(op entity.Operator, sess *billSession) *SessionView {
	now := s.now()
	active := sess.notices[:0]
	for _, n := range sess.notices {
		if n.Active(now) {
			active = append(active, n)
		}
	}
	sess.notices = active

	notices := make([]entity.Notice, len(active))
	copy(notices, active)

	var draft *entity.LineItemDraft
	if sess.draft != nil {
		cp := *sess.draft
		draft = &cp
	}

	return &SessionView{
		EmployeeID:  op.EmployeeID,
		ActiveIndex: sess.book.Active(),
		Bills:       sess.book.Snapshot(),
		TotalAmount: sess.book.TotalAmount(),
		Draft:       draft,
		Suggestions: sess.fetcher.Latest(),
		Notices:     notices,
	}
}

func applyDraftUpdate(draft *entity.LineItemDraft, update DraftUpdate) {
	if update.SellPrice != nil {
		draft.SellPrice = update.SellPrice.Round(priceDecimals)
	}
	if update.Quantity != nil {
		draft.Quantity = *update.Quantity
	}
}
