// Package rpctest provides an in-memory CardStore server for tests.
//
// Store applies the rules of the hosted service: visibility of inactive and
// private cards, one membership per (identity, card) and a save counter that
// never drops below zero. Failures and stalls can be injected per method.
package rpctest

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/herocards/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Store is an in-memory rpc.CardStoreServer.
type Store struct {
	rpc.UnimplementedCardStoreServer

	mu       sync.Mutex
	users    map[string]*rpc.User
	cards    map[string]*rpc.Card
	saved    map[string]map[string]bool
	calls    map[string]int
	failures map[string]codes.Code
	gates    map[string]chan struct{}
	down     bool
	lastMD   metadata.MD
}

func NewStore() *Store {
	return &Store{
		users:    map[string]*rpc.User{},
		cards:    map[string]*rpc.Card{},
		saved:    map[string]map[string]bool{},
		calls:    map[string]int{},
		failures: map[string]codes.Code{},
		gates:    map[string]chan struct{}{},
	}
}

// Fail makes every following call of method return code until Recover.
func (s *Store) Fail(method string, code codes.Code) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = code
}

func (s *Store) Recover(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method)
}

// SetDown makes every method answer codes.Unavailable.
func (s *Store) SetDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

// Hold blocks calls of method until the returned release func is called or
// the call context ends.
func (s *Store) Hold(method string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.gates[method] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.gates[method] == ch {
				delete(s.gates, method)
			}
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns how many times method was invoked.
func (s *Store) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// ResetCalls zeroes every call counter.
func (s *Store) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = map[string]int{}
}

// LastMetadata returns the incoming metadata of the latest call.
func (s *Store) LastMetadata() metadata.MD {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMD.Copy()
}

// PutUser seeds a profile.
func (s *Store) PutUser(u *rpc.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.Identity] = &cp
}

// PutCard seeds a card as is, including its save counter.
func (s *Store) PutCard(c *rpc.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.cards[c.Id] = &cp
}

// Card returns a copy of the stored card, or nil.
func (s *Store) Card(id string) *rpc.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok {
		return nil
	}
	cp := *c
	return &cp
}

// User returns a copy of the stored profile, or nil.
func (s *Store) User(identity string) *rpc.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[identity]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

// enter counts the call, waits on a gate and applies injected failures.
// On success it returns with s.mu held; the caller must unlock.
func (s *Store) enter(ctx context.Context, method string) error {
	s.mu.Lock()
	s.calls[method]++
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		s.lastMD = md.Copy()
	}
	gate := s.gates[method]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return status.FromContextError(ctx.Err()).Err()
		}
	}

	s.mu.Lock()
	if s.down {
		s.mu.Unlock()
		return status.Error(codes.Unavailable, "store is down")
	}
	if code, ok := s.failures[method]; ok {
		s.mu.Unlock()
		return status.Errorf(code, "injected failure for %s", method)
	}
	return nil
}

func copyCard(c *rpc.Card) *rpc.Card {
	cp := *c
	return &cp
}

func visible(c *rpc.Card, viewer string) bool {
	if !c.IsActive {
		return false
	}
	return c.IsPublic || (viewer != "" && c.OwnerIdentity == viewer)
}

func sortNewestFirst(cards []*rpc.Card) {
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].CreatedAt != cards[j].CreatedAt {
			return cards[i].CreatedAt > cards[j].CreatedAt
		}
		return cards[i].Id > cards[j].Id
	})
}

func (s *Store) GetUser(ctx context.Context, in *rpc.GetUserRequest) (*rpc.GetUserResponse, error) {
	if err := s.enter(ctx, rpc.MethodGetUser); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	u, ok := s.users[in.Identity]
	if !ok {
		return nil, status.Error(codes.NotFound, "user not found")
	}
	cp := *u
	return &rpc.GetUserResponse{User: &cp}, nil
}

func (s *Store) SaveUser(ctx context.Context, in *rpc.SaveUserRequest) (*rpc.Empty, error) {
	if err := s.enter(ctx, rpc.MethodSaveUser); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if in.User == nil || in.User.Identity == "" {
		return nil, status.Error(codes.InvalidArgument, "identity is required")
	}
	cp := *in.User
	s.users[cp.Identity] = &cp
	return &rpc.Empty{}, nil
}

func (s *Store) GetCards(ctx context.Context, in *rpc.GetCardsRequest) (*rpc.CardsResponse, error) {
	if err := s.enter(ctx, rpc.MethodGetCards); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var out []*rpc.Card
	for _, c := range s.cards {
		if c.OwnerIdentity == in.OwnerIdentity && c.IsActive {
			out = append(out, copyCard(c))
		}
	}
	sortNewestFirst(out)
	return &rpc.CardsResponse{Cards: out}, nil
}

func (s *Store) GetCard(ctx context.Context, in *rpc.GetCardRequest) (*rpc.GetCardResponse, error) {
	if err := s.enter(ctx, rpc.MethodGetCard); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	c, ok := s.cards[in.Id]
	if !ok || !visible(c, in.ViewerIdentity) {
		return nil, status.Error(codes.NotFound, "card not found")
	}
	return &rpc.GetCardResponse{Card: copyCard(c)}, nil
}

func (s *Store) SaveCard(ctx context.Context, in *rpc.SaveCardRequest) (*rpc.Empty, error) {
	if err := s.enter(ctx, rpc.MethodSaveCard); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if in.Card == nil || in.Card.Id == "" || in.Card.OwnerIdentity == "" {
		return nil, status.Error(codes.InvalidArgument, "card id and owner are required")
	}
	cp := copyCard(in.Card)
	if prev, ok := s.cards[cp.Id]; ok {
		if prev.OwnerIdentity != cp.OwnerIdentity {
			return nil, status.Error(codes.PermissionDenied, "card belongs to another identity")
		}
		cp.SaveCount = prev.SaveCount
	} else {
		cp.SaveCount = 0
	}
	s.cards[cp.Id] = cp
	return &rpc.Empty{}, nil
}

func (s *Store) owned(owner, id string) (*rpc.Card, error) {
	c, ok := s.cards[id]
	if !ok {
		return nil, status.Error(codes.NotFound, "card not found")
	}
	if c.OwnerIdentity != owner {
		return nil, status.Error(codes.PermissionDenied, "card belongs to another identity")
	}
	return c, nil
}

func (s *Store) DeleteCard(ctx context.Context, in *rpc.DeleteCardRequest) (*rpc.Empty, error) {
	if err := s.enter(ctx, rpc.MethodDeleteCard); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	c, err := s.owned(in.OwnerIdentity, in.Id)
	if err != nil {
		return nil, err
	}
	c.IsActive = false
	return &rpc.Empty{}, nil
}

func (s *Store) SetCardVisibility(ctx context.Context, in *rpc.SetCardVisibilityRequest) (*rpc.Empty, error) {
	if err := s.enter(ctx, rpc.MethodSetCardVisibility); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	c, err := s.owned(in.OwnerIdentity, in.Id)
	if err != nil {
		return nil, err
	}
	c.IsPublic = in.IsPublic
	return &rpc.Empty{}, nil
}

func (s *Store) SaveToCollection(ctx context.Context, in *rpc.CollectionRequest) (*rpc.Empty, error) {
	if err := s.enter(ctx, rpc.MethodSaveToCollection); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	c, ok := s.cards[in.CardId]
	if !ok || !c.IsActive || !c.IsPublic {
		return nil, status.Error(codes.FailedPrecondition, "card is not public")
	}
	if s.saved[in.Identity][in.CardId] {
		return nil, status.Error(codes.AlreadyExists, "card already saved")
	}
	if s.saved[in.Identity] == nil {
		s.saved[in.Identity] = map[string]bool{}
	}
	s.saved[in.Identity][in.CardId] = true
	c.SaveCount++
	return &rpc.Empty{}, nil
}

func (s *Store) RemoveFromCollection(ctx context.Context, in *rpc.CollectionRequest) (*rpc.Empty, error) {
	if err := s.enter(ctx, rpc.MethodRemoveFromCollection); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if !s.saved[in.Identity][in.CardId] {
		return &rpc.Empty{}, nil
	}
	delete(s.saved[in.Identity], in.CardId)
	if c, ok := s.cards[in.CardId]; ok && c.SaveCount > 0 {
		c.SaveCount--
	}
	return &rpc.Empty{}, nil
}

func (s *Store) IsCardSaved(ctx context.Context, in *rpc.CollectionRequest) (*rpc.IsCardSavedResponse, error) {
	if err := s.enter(ctx, rpc.MethodIsCardSaved); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	return &rpc.IsCardSavedResponse{Saved: s.saved[in.Identity][in.CardId]}, nil
}

func (s *Store) GetSavedCards(ctx context.Context, in *rpc.GetSavedCardsRequest) (*rpc.CardsResponse, error) {
	if err := s.enter(ctx, rpc.MethodGetSavedCards); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var out []*rpc.Card
	for id := range s.saved[in.Identity] {
		if c, ok := s.cards[id]; ok && visible(c, in.Identity) {
			out = append(out, copyCard(c))
		}
	}
	sortNewestFirst(out)
	return &rpc.CardsResponse{Cards: out}, nil
}

func (s *Store) GetStats(ctx context.Context, in *rpc.GetStatsRequest) (*rpc.GetStatsResponse, error) {
	if err := s.enter(ctx, rpc.MethodGetStats); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	st := &rpc.Stats{SavedByMe: int64(len(s.saved[in.Identity]))}
	for _, c := range s.cards {
		if c.OwnerIdentity != in.Identity || !c.IsActive {
			continue
		}
		st.TotalCards++
		st.TotalSaves += c.SaveCount
		if c.IsPublic {
			st.PublicCards++
		}
		switch c.Alignment {
		case "hero":
			st.Heroes++
		case "villain":
			st.Villains++
		}
	}
	return &rpc.GetStatsResponse{Stats: st}, nil
}
