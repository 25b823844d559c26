package ledger

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/ports"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/sentinel"
)

var errZeroQuantity = errors.New("quantity must be positive")

type tokenKey struct {
	token domain.TokenID
	nonce uint64
}

type balanceKey struct {
	holder domain.Principal
	tokenKey
}

type roleKey struct {
	token domain.TokenID
	role  ports.Role
}

// InMemory is a multi-token ledger seen from one custody account. It
// implements the equippable ports and tx.Snapshotter.
type InMemory struct {
	mu        sync.RWMutex
	custody   domain.Principal
	tokens    map[tokenKey]ports.TokenData
	lastNonce map[domain.TokenID]uint64
	balances  map[balanceKey]uint64
	roles     map[roleKey]struct{}
}

func NewInMemory(custody domain.Principal) *InMemory {
	return &InMemory{
		custody:   custody,
		tokens:    make(map[tokenKey]ports.TokenData),
		lastNonce: make(map[domain.TokenID]uint64),
		balances:  make(map[balanceKey]uint64),
		roles:     make(map[roleKey]struct{}),
	}
}

func (l *InMemory) Mint(_ context.Context, req ports.MintRequest) (uint64, error) {
	if req.Quantity == 0 {
		return 0, errZeroQuantity
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	nonce := req.Nonce
	if nonce == 0 {
		nonce = l.createLocked(req.Token, req.Name, req.Attributes, req.URIs)
	} else if _, ok := l.tokens[tokenKey{req.Token, nonce}]; !ok {
		return 0, fmt.Errorf("mint %s-%02x: %w", req.Token, nonce, sentinel.ErrNotFound)
	}
	l.balances[balanceKey{l.custody, tokenKey{req.Token, nonce}}] += req.Quantity
	return nonce, nil
}

func (l *InMemory) Burn(_ context.Context, token domain.TokenID, nonce uint64, quantity uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debitLocked(l.custody, tokenKey{token, nonce}, quantity)
}

func (l *InMemory) BalanceOf(_ context.Context, holder domain.Principal, token domain.TokenID, nonce uint64) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[balanceKey{holder, tokenKey{token, nonce}}], nil
}

func (l *InMemory) Transfer(_ context.Context, to domain.Principal, token domain.TokenID, nonce uint64, quantity uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := tokenKey{token, nonce}
	if err := l.debitLocked(l.custody, key, quantity); err != nil {
		return err
	}
	l.balances[balanceKey{to, key}] += quantity
	return nil
}

func (l *InMemory) TokenData(_ context.Context, token domain.TokenID, nonce uint64) (*ports.TokenData, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	data, ok := l.tokens[tokenKey{token, nonce}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	data.Attributes = slices.Clone(data.Attributes)
	data.URIs = slices.Clone(data.URIs)
	return &data, nil
}

// Receive moves every payment from the caller's balance to custody. On
// failure no payment is moved.
func (l *InMemory) Receive(_ context.Context, from domain.Principal, payments []models.Payment) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	needed := make(map[tokenKey]uint64, len(payments))
	for _, p := range payments {
		needed[tokenKey{p.Token, p.Nonce}] += p.Amount
	}
	for key, amount := range needed {
		if l.balances[balanceKey{from, key}] < amount {
			return fmt.Errorf("receive %s-%02x: %w", key.token, key.nonce, sentinel.ErrInsufficientBalance)
		}
	}
	for key, amount := range needed {
		l.balances[balanceKey{from, key}] -= amount
		l.balances[balanceKey{l.custody, key}] += amount
	}
	return nil
}

func (l *InMemory) HasRole(_ context.Context, token domain.TokenID, role ports.Role) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.roles[roleKey{token, role}]
	return ok, nil
}

// GrantRole gives the custody account role on token.
func (l *InMemory) GrantRole(_ context.Context, token domain.TokenID, role ports.Role) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.roles[roleKey{token, role}] = struct{}{}
	return nil
}

// CreateToken creates a new nonce of token held by holder.
func (l *InMemory) CreateToken(_ context.Context, holder domain.Principal, data ports.TokenData, quantity uint64) (uint64, error) {
	if quantity == 0 {
		return 0, errZeroQuantity
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	nonce := l.createLocked(data.Token, data.Name, data.Attributes, data.URIs)
	l.balances[balanceKey{holder, tokenKey{data.Token, nonce}}] += quantity
	return nonce, nil
}

func (l *InMemory) Snapshot() func() {
	l.mu.RLock()
	tokens := maps.Clone(l.tokens)
	lastNonce := maps.Clone(l.lastNonce)
	balances := maps.Clone(l.balances)
	roles := maps.Clone(l.roles)
	l.mu.RUnlock()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.tokens = tokens
		l.lastNonce = lastNonce
		l.balances = balances
		l.roles = roles
	}
}

func (l *InMemory) createLocked(token domain.TokenID, name string, attributes []byte, uris []string) uint64 {
	l.lastNonce[token]++
	nonce := l.lastNonce[token]
	l.tokens[tokenKey{token, nonce}] = ports.TokenData{
		Token:      token,
		Nonce:      nonce,
		Name:       name,
		Attributes: slices.Clone(attributes),
		URIs:       slices.Clone(uris),
	}
	return nonce
}

func (l *InMemory) debitLocked(holder domain.Principal, key tokenKey, quantity uint64) error {
	if quantity == 0 {
		return errZeroQuantity
	}
	bk := balanceKey{holder, key}
	if l.balances[bk] < quantity {
		return fmt.Errorf("%s-%02x held by %s: %w", key.token, key.nonce, holder, sentinel.ErrInsufficientBalance)
	}
	l.balances[bk] -= quantity
	if l.balances[bk] == 0 {
		delete(l.balances, bk)
	}
	return nil
}
