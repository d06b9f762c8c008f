package store

const schema = `
CREATE TABLE IF NOT EXISTS page (
	id      INTEGER PRIMARY KEY,
	content BLOB NOT NULL,
	plain   TEXT NOT NULL
);

CREATE VIRTUAL TABLE IF NOT EXISTS page_fts USING fts5(
	plain,
	content='page',
	content_rowid='id'
);

CREATE TRIGGER IF NOT EXISTS page_ai AFTER INSERT ON page BEGIN
	INSERT INTO page_fts(rowid, plain) VALUES (new.id, new.plain);
END;
`
