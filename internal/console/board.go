package console

import (
	"sync"
	"time"

	"ops-console/internal/models"
	"ops-console/internal/reconcile"
	"ops-console/internal/render"
)

// Snapshot is the result area of one view.
type Snapshot struct {
	View render.View `json:"view"`
	Seq  uint64      `json:"seq"`
	// Stale is set on a result that finished after a newer request for the
	// same view was issued. Stale results are never committed.
	Stale     bool              `json:"stale"`
	Refreshed bool              `json:"refreshed"`
	Outcome   reconcile.Outcome `json:"outcome"`
	Table     render.Table      `json:"table"`
	Dashboard *render.Dashboard `json:"dashboard,omitempty"`
	Records   []models.Record   `json:"-"`
	FetchedAt time.Time         `json:"fetched_at"`
}

type slot struct {
	issued    uint64
	committed *Snapshot
	// dirty means a mutation touched the view since its last commit; the
	// next read bypasses the backend cache.
	dirty bool
	// dirtyAt is the last sequence issued before the view was invalidated.
	// Results with a sequence up to it were fetched before the mutation.
	dirtyAt uint64
	// patches are the records merged since dirtyAt, replayed on top of
	// results fetched before the mutation.
	patches []models.Record
	redraw  func([]models.Record) render.Table
}

func (s *slot) invalidate() {
	s.dirty = true
	s.dirtyAt = s.issued
}

// Board keeps the per-view result areas of one session.
type Board struct {
	mu    sync.Mutex
	slots map[render.View]*slot
}

func NewBoard() *Board {
	return &Board{slots: make(map[render.View]*slot)}
}

func (b *Board) slot(view render.View) *slot {
	s, ok := b.slots[view]
	if !ok {
		s = &slot{}
		b.slots[view] = s
	}
	return s
}

// Issue hands out the sequence number of a new request for view.
func (b *Board) Issue(view render.View) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.slot(view)
	s.issued++

	return s.issued
}

// Commit stores snap if it belongs to the most recently issued request for
// its view. A result fetched before the last mutation keeps the view dirty
// and gets the mutation's records merged back in. Commit returns what was
// stored and whether the snapshot was committed.
func (b *Board) Commit(snap Snapshot) (Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.slot(snap.View)
	if snap.Seq != s.issued {
		return snap, false
	}

	if s.dirty && snap.Seq <= s.dirtyAt {
		if snap.Outcome.OK() && len(s.patches) > 0 {
			records := snap.Records
			for _, rec := range s.patches {
				records = mergeInto(records, rec)
			}
			snap.Records = records
			if s.redraw != nil {
				snap.Table = s.redraw(records)
			}
		}
	} else if snap.Outcome.OK() && snap.Refreshed {
		s.dirty = false
		s.patches = nil
		s.redraw = nil
	}

	s.committed = &snap

	return snap, true
}

func (b *Board) Latest(view render.View) (Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.slots[view]
	if !ok || s.committed == nil {
		return Snapshot{}, false
	}

	return *s.committed, true
}

func (b *Board) Dirty(view render.View) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.slots[view]
	return ok && s.dirty
}

// Invalidate marks views so their next read asks for fresh data.
func (b *Board) Invalidate(views ...render.View) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, v := range views {
		b.slot(v).invalidate()
	}
}

// Patch merges rec into the committed records of view, matching on the
// record ID, and re-renders the table with redraw. A record with an unseen
// ID is put first. The view is invalidated either way, and rec is kept for
// any result still in flight from before this call.
func (b *Board) Patch(view render.View, rec models.Record, redraw func([]models.Record) render.Table) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.slot(view)
	s.invalidate()
	s.patches = append(s.patches, rec)
	s.redraw = redraw

	if s.committed == nil || !s.committed.Outcome.OK() {
		return false
	}

	next := *s.committed
	next.Records = mergeInto(s.committed.Records, rec)
	next.Table = redraw(next.Records)
	s.committed = &next

	return true
}

// mergeInto returns a copy of records with rec merged into the entry of the
// same ID, or prepended when there is none.
func mergeInto(records []models.Record, rec models.Record) []models.Record {
	out := make([]models.Record, 0, len(records)+1)
	merged := false
	for _, existing := range records {
		if existing.ID == rec.ID && !merged {
			existing = mergeRecord(existing, rec)
			merged = true
		}
		out = append(out, existing)
	}
	if !merged {
		out = append([]models.Record{rec}, out...)
	}

	return out
}

func mergeRecord(base, patch models.Record) models.Record {
	fields := make(map[string]any, len(base.Fields)+len(patch.Fields))
	for k, v := range base.Fields {
		fields[k] = v
	}
	for k, v := range patch.Fields {
		if v == nil || v == "" {
			continue
		}
		fields[k] = v
	}

	return models.Record{ID: base.ID, Fields: fields}
}

type boardEntry struct {
	board *Board
	// expires is when the owning session ends; zero when unknown.
	expires time.Time
	seen    time.Time
}

// Boards hands out one Board per session.
type Boards struct {
	mu     sync.Mutex
	boards map[string]*boardEntry
}

func NewBoards() *Boards {
	return &Boards{boards: make(map[string]*boardEntry)}
}

// For returns the board of sessionID, creating it on first use. expires is
// the session's end, now the time of this access.
func (bs *Boards) For(sessionID string, expires, now time.Time) *Board {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	e, ok := bs.boards[sessionID]
	if !ok {
		e = &boardEntry{board: NewBoard()}
		bs.boards[sessionID] = e
	}
	if !expires.IsZero() {
		e.expires = expires
	}
	e.seen = now

	return e.board
}

func (bs *Boards) Drop(sessionID string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	delete(bs.boards, sessionID)
}

// Prune drops boards whose session has expired and boards unused for longer
// than idle. It returns how many went.
func (bs *Boards) Prune(now time.Time, idle time.Duration) int {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	n := 0
	for id, e := range bs.boards {
		expired := !e.expires.IsZero() && !now.Before(e.expires)
		if expired || now.Sub(e.seen) > idle {
			delete(bs.boards, id)
			n++
		}
	}

	return n
}

func (bs *Boards) Len() int {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	return len(bs.boards)
}
