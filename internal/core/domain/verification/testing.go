package verification

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"exzly/internal/core/domain/user"
	"fmt"
	"sync"
	"time"
)

type FakeRepository struct {
	Records     []Record
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{Records: make([]Record, 0, 10)}
}

func (r *FakeRepository) Create(ctx context.Context, input CreateInput) (rec Record, err error) {
	if r.ReturnError {
		return rec, fmt.Errorf("could not create verification record for user %d", input.UserID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()

	rec = Record{
		ID:        ID(len(r.Records) + 1),
		UserID:    input.UserID,
		Purpose:   input.Purpose,
		Code:      input.Code,
		CodeHash:  input.CodeHash,
		ExpiresAt: input.ExpiresAt,
		CreatedAt: input.CreatedAt,
		UpdatedAt: input.CreatedAt,
	}
	r.Records = append(r.Records, rec)
	return rec, nil
}

func (r *FakeRepository) find(match func(rec Record) bool) (rec Record, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for ix := len(r.Records) - 1; ix >= 0; ix-- {
		if match(r.Records[ix]) {
			return r.Records[ix], nil
		}
	}
	return rec, ErrRecordDoesNotExist
}

func (r *FakeRepository) GetByCode(ctx context.Context, code Code) (Record, error) {
	return r.find(func(rec Record) bool { return rec.Code == code })
}

func (r *FakeRepository) GetByCodeHash(ctx context.Context, hash CodeHash) (Record, error) {
	return r.find(func(rec Record) bool { return rec.CodeHash == hash })
}

func (r *FakeRepository) GetByToken(ctx context.Context, token Token) (Record, error) {
	return r.find(func(rec Record) bool { return rec.Token != "" && rec.Token == token })
}

func (r *FakeRepository) ConsumeCode(ctx context.Context, input ConsumeCodeInput) (rec Record, err error) {
	if r.ReturnError {
		return rec, fmt.Errorf("could not consume code of record %d", input.ID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()

	for ix := range r.Records {
		if r.Records[ix].ID != input.ID {
			continue
		}
		if r.Records[ix].IsUsed() {
			return rec, ErrAlreadyUsed
		}
		r.Records[ix].CodeIsUsed = true
		if input.Token.IsPresent {
			r.Records[ix].Token = input.Token.Value
		}
		r.Records[ix].ExpiresAt = input.ExpiresAt
		r.Records[ix].UpdatedAt = input.At
		return r.Records[ix], nil
	}
	return rec, ErrRecordDoesNotExist
}

func (r *FakeRepository) ConsumeToken(ctx context.Context, id ID, at time.Time) (rec Record, err error) {
	if r.ReturnError {
		return rec, fmt.Errorf("could not consume token of record %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()

	for ix := range r.Records {
		if r.Records[ix].ID != id {
			continue
		}
		if r.Records[ix].TokenIsUsed {
			return rec, ErrAlreadyUsed
		}
		r.Records[ix].TokenIsUsed = true
		r.Records[ix].UpdatedAt = at
		return r.Records[ix], nil
	}
	return rec, ErrRecordDoesNotExist
}

// Get returns a snapshot of the record with the given ID.
func (r *FakeRepository) Get(id ID) (rec Record, ok bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, rec := range r.Records {
		if rec.ID == id {
			return rec, true
		}
	}
	return rec, false
}

// FakeCodeGenerator returns Codes in order, repeating the last one when exhausted.
type FakeCodeGenerator struct {
	Codes       []Code
	ReturnError bool
	calls       int
	lock        sync.Mutex
}

func NewFakeCodeGenerator(codes ...Code) *FakeCodeGenerator {
	if len(codes) == 0 {
		codes = []Code{"123456"}
	}
	return &FakeCodeGenerator{Codes: codes}
}

func (g *FakeCodeGenerator) GenerateCode() (Code, error) {
	if g.ReturnError {
		return "", fmt.Errorf("could not generate code")
	}
	g.lock.Lock()
	defer g.lock.Unlock()

	ix := g.calls
	if ix >= len(g.Codes) {
		ix = len(g.Codes) - 1
	}
	g.calls++
	return g.Codes[ix], nil
}

type FakeCodeHasher struct{}

func NewFakeCodeHasher() *FakeCodeHasher {
	return &FakeCodeHasher{}
}

func (h *FakeCodeHasher) HashCode(code Code) CodeHash {
	sum := sha256.Sum256([]byte(code))
	return CodeHash(hex.EncodeToString(sum[:]))
}

type FakeTokenIssuer struct {
	ReturnError bool
	Issued      []Token
	lock        sync.Mutex
}

func NewFakeTokenIssuer() *FakeTokenIssuer {
	return &FakeTokenIssuer{}
}

func (i *FakeTokenIssuer) IssuePasswordResetToken(code Code) (Token, error) {
	if i.ReturnError {
		return "", fmt.Errorf("could not issue token")
	}
	i.lock.Lock()
	defer i.lock.Unlock()

	token := Token(fmt.Sprintf("reset-%s-%d", string(code), len(i.Issued)+1))
	i.Issued = append(i.Issued, token)
	return token, nil
}

func (i *FakeTokenIssuer) Count() int {
	i.lock.Lock()
	defer i.lock.Unlock()
	return len(i.Issued)
}

type SentNotification struct {
	User         user.User
	Notification Notification
}

type FakeNotifier struct {
	Sent        []SentNotification
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (n *FakeNotifier) NotifyCode(ctx context.Context, u user.User, notification Notification) error {
	if n.ReturnError {
		return fmt.Errorf("could not send notification to %s", u.Email)
	}
	n.lock.Lock()
	defer n.lock.Unlock()
	n.Sent = append(n.Sent, SentNotification{User: u, Notification: notification})
	return nil
}

type FakeMarkerStore struct {
	Markers     map[SessionID]Token
	TTLs        map[SessionID]time.Duration
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeMarkerStore() *FakeMarkerStore {
	return &FakeMarkerStore{
		Markers: make(map[SessionID]Token),
		TTLs:    make(map[SessionID]time.Duration),
	}
}

func (s *FakeMarkerStore) SetMarker(ctx context.Context, sid SessionID, token Token, ttl time.Duration) error {
	if s.ReturnError {
		return fmt.Errorf("could not set marker for %s", sid)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Markers[sid] = token
	s.TTLs[sid] = ttl
	return nil
}

func (s *FakeMarkerStore) GetMarker(ctx context.Context, sid SessionID) (Token, error) {
	if s.ReturnError {
		return "", fmt.Errorf("could not get marker for %s", sid)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	token, ok := s.Markers[sid]
	if !ok {
		return "", ErrMarkerDoesNotExist
	}
	return token, nil
}

func (s *FakeMarkerStore) ClearMarker(ctx context.Context, sid SessionID) error {
	if s.ReturnError {
		return fmt.Errorf("could not clear marker for %s", sid)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.Markers, sid)
	delete(s.TTLs, sid)
	return nil
}
