package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/moneta/internal/model"
)

// persistence is the SQLite layer behind the store. The store treats it
// as a plain key-value/vector index: put documents and chunks, load
// them all back on startup. The in-memory index does the searching.
type persistence struct {
	db *sql.DB
}

func openPersistence(path string) (*persistence, error) {
	connStr := path
	if path == ":memory:" {
		// Shared cache so every pooled connection sees the same db.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	p := &persistence{db: db}
	if err := p.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return p, nil
}

func (p *persistence) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		authority INTEGER NOT NULL,
		published_at DATETIME NOT NULL,
		topics TEXT,
		text TEXT NOT NULL,
		deprecated INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS chunks (
		id TEXT PRIMARY KEY,
		doc_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		start_off INTEGER NOT NULL,
		end_off INTEGER NOT NULL,
		text TEXT NOT NULL,
		embedding BLOB NOT NULL,
		FOREIGN KEY (doc_id) REFERENCES documents(id)
	);

	CREATE INDEX IF NOT EXISTS idx_chunks_doc ON chunks(doc_id, seq);
	`
	if _, err := p.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

func (p *persistence) close() error {
	return p.db.Close()
}

// saveDocument writes the document and its full chunk set in a single
// transaction, so a crash can never leave a partial chunk set behind.
func (p *persistence) saveDocument(doc model.Document, chunks []model.Chunk) error {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	topics, err := json.Marshal(doc.Topics)
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO documents (id, authority, published_at, topics, text, deprecated)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, int(doc.Authority), doc.PublishedAt.UTC().Format(time.RFC3339), string(topics), doc.Text, boolToInt(doc.Deprecated),
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO chunks (id, doc_id, seq, start_off, end_off, text, embedding)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ch := range chunks {
		emb, err := json.Marshal(ch.Embedding)
		if err != nil {
			return fmt.Errorf("marshal embedding: %w", err)
		}
		if _, err := stmt.Exec(ch.ID, ch.DocID, ch.Seq, ch.Start, ch.End, ch.Text, emb); err != nil {
			return fmt.Errorf("insert chunk %s: %w", ch.ID, err)
		}
	}

	return tx.Commit()
}

func (p *persistence) markDeprecated(docID string) error {
	_, err := p.db.Exec(`UPDATE documents SET deprecated = 1 WHERE id = ?`, docID)
	return err
}

// loadAll reads the whole corpus back. Deprecated documents are loaded
// too: they keep citations resolvable, and the store skips them during
// search.
func (p *persistence) loadAll() ([]model.Document, []model.Chunk, error) {
	rows, err := p.db.Query(`SELECT id, authority, published_at, topics, text, deprecated FROM documents ORDER BY id`)
	if err != nil {
		return nil, nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var doc model.Document
		var authority, deprecated int
		var published, topics string
		if err := rows.Scan(&doc.ID, &authority, &published, &topics, &doc.Text, &deprecated); err != nil {
			return nil, nil, fmt.Errorf("scan document: %w", err)
		}
		doc.Authority = model.Authority(authority)
		doc.Deprecated = deprecated != 0
		if doc.PublishedAt, err = time.Parse(time.RFC3339, published); err != nil {
			return nil, nil, fmt.Errorf("parse published_at for %s: %w", doc.ID, err)
		}
		if topics != "" {
			if err := json.Unmarshal([]byte(topics), &doc.Topics); err != nil {
				return nil, nil, fmt.Errorf("parse topics for %s: %w", doc.ID, err)
			}
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	chunkRows, err := p.db.Query(`SELECT id, doc_id, seq, start_off, end_off, text, embedding FROM chunks ORDER BY doc_id, seq`)
	if err != nil {
		return nil, nil, fmt.Errorf("query chunks: %w", err)
	}
	defer chunkRows.Close()

	var chunks []model.Chunk
	for chunkRows.Next() {
		var ch model.Chunk
		var emb []byte
		if err := chunkRows.Scan(&ch.ID, &ch.DocID, &ch.Seq, &ch.Start, &ch.End, &ch.Text, &emb); err != nil {
			return nil, nil, fmt.Errorf("scan chunk: %w", err)
		}
		if err := json.Unmarshal(emb, &ch.Embedding); err != nil {
			return nil, nil, fmt.Errorf("parse embedding for %s: %w", ch.ID, err)
		}
		chunks = append(chunks, ch)
	}
	if err := chunkRows.Err(); err != nil {
		return nil, nil, err
	}

	return docs, chunks, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
