// Package files carries directory listings from background loaders to the
// event loop and applies them to in-memory folders.
package files

import (
	"sync"
	"sync/atomic"

	fsutil "github.com/kk-code-lab/rview/internal/fs"
)

// Ticket identifies one load generation of a directory. Tickets only grow.
type Ticket uint64

// OpKind discriminates folder operations.
type OpKind uint8

const (
	OpPart OpKind = iota + 1
	OpDone
	OpError
)

func (k OpKind) String() string {
	switch k {
	case OpPart:
		return "part"
	case OpDone:
		return "done"
	case OpError:
		return "error"
	default:
		return "unknown"
	}
}

// Op is an outbound folder event. Part carries a batch of entries in
// discovery order, Done carries the fingerprint the listing was taken at,
// Error reports that the directory could not be inspected.
type Op struct {
	Kind        OpKind
	Dir         string
	Entries     []fsutil.Entry
	Fingerprint fsutil.Fingerprint
	Ticket      Ticket
	Err         error
}

// Part builds a batch event.
func Part(dir string, entries []fsutil.Entry, ticket Ticket) Op {
	return Op{Kind: OpPart, Dir: dir, Entries: entries, Ticket: ticket}
}

// Done builds the terminal event of a load.
func Done(dir string, fp fsutil.Fingerprint, ticket Ticket) Op {
	return Op{Kind: OpDone, Dir: dir, Fingerprint: fp, Ticket: ticket}
}

// Error builds a failure event. It is not tied to a load generation.
func Error(dir string, err error) Op {
	return Op{Kind: OpError, Dir: dir, Err: err}
}

var (
	ticketSeq atomic.Uint64
	issued    sync.Map // dir -> Ticket
)

// Prepare issues the ticket for a new load of dir. Tickets are unique across
// the process, so they are also monotonic per directory.
func Prepare(dir string) Ticket {
	t := Ticket(ticketSeq.Add(1))
	issued.Store(dir, t)
	return t
}

// Issued returns the most recent ticket handed out for dir, or zero.
func Issued(dir string) Ticket {
	if v, ok := issued.Load(dir); ok {
		return v.(Ticket)
	}
	return 0
}
