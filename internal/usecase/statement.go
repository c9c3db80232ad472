package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agriops/farmledger/internal/domain"
)

// StatementLine pairs an entry with the running balance after applying it.
type StatementLine struct {
	Entry          *domain.LedgerEntry
	RunningBalance decimal.Decimal
}

// Statement is a lazy, finite, restartable sequence of a party's entries in
// (posted_at, seq) order. Pages are fetched by keyset cursor as the caller
// advances; the running balance starts at the opening balance for the range.
// Rewinding and re-reading with no intervening postings yields an identical
// sequence.
type Statement struct {
	entryRepo EntryRepository

	from    time.Time
	to      time.Time
	partyID int64
	opening decimal.Decimal

	pageSize  int
	buf       []*domain.LedgerEntry
	idx       int
	afterTime time.Time
	afterSeq  int64
	running   decimal.Decimal
	done      bool
}

func newStatement(entryRepo EntryRepository, partyID int64, from, to time.Time, opening decimal.Decimal, pageSize int) *Statement {
	if pageSize <= 0 {
		pageSize = DefaultStatementPageSize
	}
	if pageSize > MaxStatementPageSize {
		pageSize = MaxStatementPageSize
	}

	s := &Statement{
		entryRepo: entryRepo,
		from:      from,
		to:        to,
		partyID:   partyID,
		opening:   opening,
		pageSize:  pageSize,
	}
	s.Rewind()

	return s
}

// OpeningBalance is the party balance just before the statement range.
func (s *Statement) OpeningBalance() decimal.Decimal {
	return s.opening
}

// Next returns the next line, or nil when the range is exhausted.
func (s *Statement) Next(ctx context.Context) (*StatementLine, error) {
	if s.idx >= len(s.buf) {
		if s.done {
			return nil, nil
		}

		if err := s.fetch(ctx); err != nil {
			return nil, err
		}

		if len(s.buf) == 0 {
			return nil, nil
		}
	}

	entry := s.buf[s.idx]
	s.idx++

	s.running = s.running.Add(entry.SignedAmount())
	s.afterTime = entry.PostedAt
	s.afterSeq = entry.Seq

	return &StatementLine{Entry: entry, RunningBalance: s.running}, nil
}

// Rewind restarts the sequence from the beginning of the range.
func (s *Statement) Rewind() {
	s.buf = nil
	s.idx = 0
	s.afterTime = time.Time{}
	s.afterSeq = 0
	s.running = s.opening
	s.done = false
}

// Collect drains the remaining lines. Convenient for callers that want the
// whole range at once.
func (s *Statement) Collect(ctx context.Context) ([]StatementLine, error) {
	var lines []StatementLine

	for {
		line, err := s.Next(ctx)
		if err != nil {
			return nil, err
		}

		if line == nil {
			return lines, nil
		}

		lines = append(lines, *line)
	}
}

// ClosingBalance is the running balance after the last line returned so far.
func (s *Statement) ClosingBalance() decimal.Decimal {
	return s.running
}

func (s *Statement) fetch(ctx context.Context) error {
	entries, err := s.entryRepo.ListByPartyRange(ctx, EntryRangeQuery{
		PartyID:   s.partyID,
		From:      s.from,
		To:        s.to,
		AfterTime: s.afterTime,
		AfterSeq:  s.afterSeq,
		Limit:     s.pageSize,
	})
	if err != nil {
		return err
	}

	s.buf = entries
	s.idx = 0

	if len(entries) < s.pageSize {
		s.done = true
	}

	return nil
}
