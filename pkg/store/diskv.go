package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
	"github.com/sirupsen/logrus"

	"tableflip.dev/caltrack/pkg/entry"
	"tableflip.dev/caltrack/pkg/ledger"
	"tableflip.dev/caltrack/pkg/logging"
	"tableflip.dev/caltrack/pkg/timeutil"
)

const (
	layoutBucket = "20060102"

	// maxBucketScan bounds the per-day reads of one query; wider windows
	// fall back to a full scan.
	maxBucketScan = 366
)

// Persistence is a ledger.Service storing one JSON document per entry on disk,
// bucketed into a directory per local calendar day.
type Persistence struct {
	d        *diskv.Diskv
	basePath string
	log      logrus.FieldLogger
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg PathConfig) (*Persistence, error) {
	if cfg == nil {
		loaded, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &Persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath, log: logging.Nop()}, nil
}

// SetLogger directs warnings about unreadable documents to log.
func (p *Persistence) SetLogger(log logrus.FieldLogger) {
	if log != nil {
		p.log = log
	}
}

// BasePath is the directory documents are written under.
func (p *Persistence) BasePath() string {
	return p.basePath
}

// Create implements ledger.Service.
func (p *Persistence) Create(ctx context.Context, r ledger.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := r.Validate(); err != nil {
		return "", err
	}
	e := r.Entry(newDocumentID())
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("store: encode entry: %w", err)
	}
	if err := p.d.Write(toKey(e), data); err != nil {
		return "", fmt.Errorf("store: write entry: %w", err)
	}
	return e.ID, nil
}

// Query implements ledger.Service. A query bounded on recordedAt only reads
// the day buckets it covers.
func (p *Persistence) Query(ctx context.Context, q ledger.Query) (ledger.Result, error) {
	prefixes, ok := bucketPrefixes(q)
	if !ok {
		prefixes = []string{""}
	}
	found := make([]entry.Entry, 0)
	for _, prefix := range prefixes {
		entries, err := p.list(ctx, prefix)
		if err != nil {
			return ledger.Result{}, err
		}
		found = append(found, entries...)
	}
	return q.Apply(found), nil
}

// ListAll reads every stored entry in no particular order.
func (p *Persistence) ListAll(ctx context.Context) ([]entry.Entry, error) {
	return p.list(ctx, "")
}

func (p *Persistence) list(ctx context.Context, prefix string) ([]entry.Entry, error) {
	done := make(chan struct{})
	defer close(done)

	all := make([]entry.Entry, 0)
	for key := range p.d.KeysPrefix(prefix, done) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := p.read(key)
		if err != nil {
			p.log.WithField("key", key).WithError(err).Warn("store: skipping unreadable document")
			continue
		}
		all = append(all, *e)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return all, nil
}

// bucketPrefixes lists the `yyyymmdd-` key prefixes of every local day the
// recordedAt bounds of q touch. It reports false when q is not bounded on
// both sides or spans more than maxBucketScan days.
func bucketPrefixes(q ledger.Query) ([]string, bool) {
	var lower, upper time.Time
	for _, f := range q.Filters {
		if f.Field != ledger.FieldRecordedAt {
			return nil, false
		}
		switch f.Op {
		case ledger.OpGTE:
			if lower.IsZero() || f.Value.After(lower) {
				lower = f.Value
			}
		case ledger.OpLT:
			if upper.IsZero() || f.Value.Before(upper) {
				upper = f.Value
			}
		default:
			return nil, false
		}
	}
	if lower.IsZero() || upper.IsZero() {
		return nil, false
	}
	if !upper.After(lower) {
		return []string{}, true
	}
	days := timeutil.Days(lower.Local(), upper.Add(-time.Nanosecond).Local())
	if len(days) > maxBucketScan {
		return nil, false
	}
	prefixes := make([]string, 0, len(days))
	for _, d := range days {
		prefixes = append(prefixes, d.Format(layoutBucket)+"-")
	}
	return prefixes, true
}

func (p *Persistence) read(key string) (*entry.Entry, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	e := entry.Entry{}
	if err := json.Unmarshal(val, &e); err != nil {
		return nil, err
	}
	e.ID = keyToPathTransform(key).FileName
	return &e, nil
}

func newDocumentID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `yyyymmdd-id`, the day taken from the entry's local date.
func toKey(e entry.Entry) string {
	return fmt.Sprintf("%s-%s", e.RecordedAt.Local().Format(layoutBucket), e.ID)
}
