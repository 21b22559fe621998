package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/csvimport/internal/header"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// schemaStatements create the tables on first start. Rows are appended while
// the file streams in and the record is written last, so import_rows carries
// no foreign key.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS imports (
	id          UUID PRIMARY KEY,
	file_name   TEXT NOT NULL,
	mode        TEXT NOT NULL,
	has_header  BOOLEAN NOT NULL,
	columns     TEXT[] NOT NULL DEFAULT '{}',
	nrow        INTEGER NOT NULL,
	ncol        INTEGER NOT NULL,
	delimiter   TEXT NOT NULL,
	encoding    TEXT NOT NULL,
	client_ip   TEXT NOT NULL DEFAULT '',
	user_agent  TEXT NOT NULL DEFAULT '',
	duration_ms BIGINT NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS imports_created_at_idx ON imports (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS import_rows (
	import_id UUID NOT NULL,
	row_num   INTEGER NOT NULL,
	fields    TEXT[] NOT NULL,
	PRIMARY KEY (import_id, row_num)
)`,
}

var importColumns = []string{
	"id", "file_name", "mode", "has_header", "columns", "nrow", "ncol",
	"delimiter", "encoding", "client_ip", "user_agent", "duration_ms", "created_at",
}

var rowColumns = []string{"import_id", "row_num", "fields"}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Postgres is a Store backed by PostgreSQL.
type Postgres struct {
	db DBTX
}

// NewPostgres wraps a pool or transaction.
func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the imports and import_rows tables if missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := p.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (p *Postgres) SaveImport(ctx context.Context, rec ImportRecord) error {
	query, args, err := insertImportQuery(rec)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := p.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save import %s: %w", rec.ID, err)
	}
	return nil
}

func (p *Postgres) AppendRows(ctx context.Context, importID uuid.UUID, firstRow int, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	id := toPgUUID(importID)
	src := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		return []any{id, int32(firstRow + i), rows[i]}, nil
	})

	n, err := p.db.CopyFrom(ctx, pgx.Identifier{"import_rows"}, rowColumns, src)
	if err != nil {
		return fmt.Errorf("copy rows for import %s: %w", importID, err)
	}
	if n != int64(len(rows)) {
		return fmt.Errorf("copy rows for import %s: wrote %d of %d", importID, n, len(rows))
	}
	return nil
}

func (p *Postgres) GetImport(ctx context.Context, id uuid.UUID) (ImportRecord, error) {
	query, args, err := getImportQuery(id)
	if err != nil {
		return ImportRecord{}, fmt.Errorf("build select: %w", err)
	}

	rec, err := scanImport(p.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return ImportRecord{}, ErrNotFound
	}
	if err != nil {
		return ImportRecord{}, fmt.Errorf("get import %s: %w", id, err)
	}
	return rec, nil
}

func (p *Postgres) ListImports(ctx context.Context, filter ListFilter) ([]ImportRecord, error) {
	query, args, err := listImportsQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var out []ImportRecord
	for rows.Next() {
		rec, err := scanImport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	return out, nil
}

func (p *Postgres) CountRows(ctx context.Context, importID uuid.UUID) (int64, error) {
	query, args, err := psql.Select("count(*)").
		From("import_rows").
		Where(sq.Eq{"import_id": toPgUUID(importID)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int64
	if err := p.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows for import %s: %w", importID, err)
	}
	return n, nil
}

func (p *Postgres) DeleteRows(ctx context.Context, importID uuid.UUID) (int64, error) {
	query, args, err := psql.Delete("import_rows").
		Where(sq.Eq{"import_id": toPgUUID(importID)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	tag, err := p.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete rows for import %s: %w", importID, err)
	}
	return tag.RowsAffected(), nil
}

func insertImportQuery(rec ImportRecord) (string, []any, error) {
	columns := rec.Columns
	if columns == nil {
		columns = []string{}
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return psql.Insert("imports").
		Columns(importColumns...).
		Values(
			toPgUUID(rec.ID),
			rec.FileName,
			rec.Mode.String(),
			rec.Disposition.HasHeader(),
			columns,
			rec.NRow,
			rec.NCol,
			rec.Delimiter,
			rec.Encoding,
			rec.ClientIP,
			rec.UserAgent,
			rec.DurationMs,
			created,
		).
		ToSql()
}

func selectImports() sq.SelectBuilder {
	return psql.Select(importColumns...).From("imports")
}

func getImportQuery(id uuid.UUID) (string, []any, error) {
	return selectImports().Where(sq.Eq{"id": toPgUUID(id)}).ToSql()
}

func listImportsQuery(filter ListFilter) (string, []any, error) {
	q := selectImports()
	if filter.FileName != "" {
		q = q.Where(sq.Expr("lower(file_name) = lower(?)", filter.FileName))
	}
	return q.OrderBy("created_at DESC", "id").
		Limit(uint64(filter.limit())).
		ToSql()
}

func scanImport(row pgx.Row) (ImportRecord, error) {
	var (
		rec       ImportRecord
		id        pgtype.UUID
		mode      string
		hasHeader bool
	)
	err := row.Scan(
		&id,
		&rec.FileName,
		&mode,
		&hasHeader,
		&rec.Columns,
		&rec.NRow,
		&rec.NCol,
		&rec.Delimiter,
		&rec.Encoding,
		&rec.ClientIP,
		&rec.UserAgent,
		&rec.DurationMs,
		&rec.CreatedAt,
	)
	if err != nil {
		return ImportRecord{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	if err := rec.Mode.UnmarshalText([]byte(mode)); err != nil {
		return ImportRecord{}, err
	}
	if hasHeader {
		rec.Disposition = header.HeaderPresent
	}
	return rec, nil
}

// toPgUUID converts a uuid to its pgtype form; the zero uuid is NULL.
func toPgUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: id, Valid: true}
}

var _ Store = (*Postgres)(nil)
