package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/appwrite/sdk-for-go/appwrite"
	"github.com/appwrite/sdk-for-go/client"
	"github.com/appwrite/sdk-for-go/databases"
	"github.com/appwrite/sdk-for-go/id"
	"github.com/appwrite/sdk-for-go/query"

	"tableflip.dev/caltrack/pkg/entry"
	"tableflip.dev/caltrack/pkg/ledger"
)

// Appwrite is a ledger.Service backed by an Appwrite database collection.
type Appwrite struct {
	cfg AppwriteConfig
	db  *databases.Databases
}

// NewAppwrite validates cfg and returns a client for its collection.
func NewAppwrite(cfg AppwriteConfig) (*Appwrite, error) {
	var missing []string
	for name, v := range map[string]string{
		"endpoint":   cfg.Endpoint,
		"project":    cfg.Project,
		"database":   cfg.Database,
		"collection": cfg.Collection,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, "appwrite."+name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("store: missing settings %s", strings.Join(missing, ", "))
	}
	if cfg.TimeField == "" {
		cfg.TimeField = ledger.FieldRecordedAt
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	opts := []client.ClientOption{
		appwrite.WithEndpoint(cfg.Endpoint),
		appwrite.WithProject(cfg.Project),
	}
	if cfg.Key != "" {
		opts = append(opts, appwrite.WithKey(cfg.Key))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, appwrite.WithTimeout(cfg.Timeout))
	}
	return &Appwrite{cfg: cfg, db: databases.New(client.New(opts...))}, nil
}

// documentList is the raw list response; documents keep their custom
// attributes, which the SDK model does not expose.
type documentList struct {
	Total     int                          `json:"total"`
	Documents []map[string]json.RawMessage `json:"documents"`
}

// Create implements ledger.Service.
func (a *Appwrite) Create(ctx context.Context, r ledger.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := r.Validate(); err != nil {
		return "", err
	}
	doc, err := a.db.CreateDocument(a.cfg.Database, a.cfg.Collection, id.Unique(), map[string]interface{}{
		"food":          strings.TrimSpace(r.Food),
		"calories":      r.Calories,
		a.cfg.TimeField: entry.FormatTime(r.RecordedAt),
	})
	if err != nil {
		return "", fmt.Errorf("store: appwrite create document: %w", err)
	}
	if doc.Id == "" {
		return "", errors.New("store: appwrite response carried no $id")
	}
	return doc.Id, nil
}

// Query implements ledger.Service.
func (a *Appwrite) Query(ctx context.Context, q ledger.Query) (ledger.Result, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Result{}, err
	}
	queries, err := a.queries(q)
	if err != nil {
		return ledger.Result{}, err
	}
	list, err := a.db.ListDocuments(a.cfg.Database, a.cfg.Collection, a.db.WithListDocumentsQueries(queries))
	if err != nil {
		return ledger.Result{}, fmt.Errorf("store: appwrite list documents: %w", err)
	}
	raw := documentList{}
	if err := list.Decode(&raw); err != nil {
		return ledger.Result{}, fmt.Errorf("store: appwrite decode documents: %w", err)
	}

	res := ledger.Result{Entries: make([]entry.Entry, 0, len(raw.Documents)), Total: raw.Total}
	for _, doc := range raw.Documents {
		e, err := a.decode(doc)
		if err != nil {
			return ledger.Result{}, err
		}
		res.Entries = append(res.Entries, e)
	}
	return res, nil
}

func (a *Appwrite) field(name string) string {
	if name == ledger.FieldRecordedAt {
		return a.cfg.TimeField
	}
	return name
}

// queries renders q with the SDK query builders.
func (a *Appwrite) queries(q ledger.Query) ([]string, error) {
	var out []string
	for _, f := range q.Filters {
		value := entry.FormatTime(f.Value)
		switch f.Op {
		case ledger.OpGTE:
			out = append(out, query.GreaterThanEqual(a.field(f.Field), value))
		case ledger.OpLT:
			out = append(out, query.LessThan(a.field(f.Field), value))
		default:
			return nil, fmt.Errorf("store: unsupported operator %q", f.Op)
		}
	}
	for _, o := range q.OrderBy {
		if o.Descending {
			out = append(out, query.OrderDesc(a.field(o.Field)))
		} else {
			out = append(out, query.OrderAsc(a.field(o.Field)))
		}
	}
	if q.Limit > 0 {
		out = append(out, query.Limit(q.Limit))
	}
	if q.Offset > 0 {
		out = append(out, query.Offset(q.Offset))
	}
	return out, nil
}

func (a *Appwrite) decode(doc map[string]json.RawMessage) (entry.Entry, error) {
	e := entry.Entry{}
	if err := json.Unmarshal(doc["$id"], &e.ID); err != nil {
		return e, fmt.Errorf("store: appwrite document id: %w", err)
	}
	if raw, ok := doc["food"]; ok {
		if err := json.Unmarshal(raw, &e.Food); err != nil {
			return e, fmt.Errorf("store: appwrite document %s food: %w", e.ID, err)
		}
	}
	if raw, ok := doc["calories"]; ok {
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return e, fmt.Errorf("store: appwrite document %s calories: %w", e.ID, err)
		}
		e.Calories = int(n)
	}
	raw, ok := doc[a.cfg.TimeField]
	if !ok {
		raw = doc["$createdAt"]
	}
	if err := json.Unmarshal(raw, &e.RecordedAt); err != nil {
		return e, fmt.Errorf("store: appwrite document %s %s: %w", e.ID, a.cfg.TimeField, err)
	}
	return e, nil
}
