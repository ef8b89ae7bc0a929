package store

// Schema contains the complete DDL for the drill tables.
const Schema = `
-- Question banks: one per imported source file
CREATE TABLE IF NOT EXISTS banks (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    source          TEXT NOT NULL DEFAULT '',
    categories_json TEXT NOT NULL DEFAULT '[]',
    created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_banks_created ON banks(created_at DESC);

-- Questions: recognized multiple-choice records
CREATE TABLE IF NOT EXISTS questions (
    id             TEXT PRIMARY KEY,
    bank_id        TEXT NOT NULL,
    position       INTEGER NOT NULL,
    content        TEXT NOT NULL,
    options_json   TEXT NOT NULL DEFAULT '[]',
    correct_answer TEXT NOT NULL,
    category       TEXT NOT NULL DEFAULT 'uncategorized',
    difficulty     TEXT NOT NULL DEFAULT 'medium',
    explanation    TEXT NOT NULL DEFAULT '',
    source         TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (bank_id) REFERENCES banks(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_questions_bank ON questions(bank_id, position);
CREATE INDEX IF NOT EXISTS idx_questions_category ON questions(category);
CREATE INDEX IF NOT EXISTS idx_questions_difficulty ON questions(difficulty);

-- Exam records: each started practice session, with a frozen question snapshot
CREATE TABLE IF NOT EXISTS exam_records (
    id             TEXT PRIMARY KEY,
    title          TEXT NOT NULL,
    questions_json TEXT NOT NULL DEFAULT '[]',
    score          INTEGER NOT NULL DEFAULT 0,
    completed      INTEGER NOT NULL DEFAULT 0,
    created_at     INTEGER NOT NULL,
    completed_at   INTEGER
);
CREATE INDEX IF NOT EXISTS idx_exams_created ON exam_records(created_at DESC);

-- Per-exam answers, one row per answered question
CREATE TABLE IF NOT EXISTS exam_answers (
    exam_id     TEXT NOT NULL,
    question_id TEXT NOT NULL,
    answer      TEXT NOT NULL,
    answered_at INTEGER NOT NULL,
    PRIMARY KEY (exam_id, question_id),
    FOREIGN KEY (exam_id) REFERENCES exam_records(id) ON DELETE CASCADE
);

-- Wrong-answer book: one row per question ever answered incorrectly
CREATE TABLE IF NOT EXISTS wrong_answers (
    question_id   TEXT PRIMARY KEY,
    question_json TEXT NOT NULL,
    user_answer   TEXT NOT NULL,
    exam_id       TEXT NOT NULL DEFAULT '',
    timestamp     INTEGER NOT NULL,
    count         INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_wrong_time ON wrong_answers(timestamp DESC);

-- Settings: single-row practice preferences
CREATE TABLE IF NOT EXISTS settings (
    id                     INTEGER PRIMARY KEY CHECK (id = 1),
    default_question_count INTEGER NOT NULL DEFAULT 20,
    show_explanation       INTEGER NOT NULL DEFAULT 1,
    random_order           INTEGER NOT NULL DEFAULT 1
);
`
