package storage

const schemaV1 = `
CREATE TABLE IF NOT EXISTS runs (
    run_id            INTEGER PRIMARY KEY AUTOINCREMENT,
    run_uuid          TEXT UNIQUE NOT NULL,
    account_id        TEXT NOT NULL,
    account_name      TEXT,
    run_timestamp     DATETIME NOT NULL,
    duration_ms       INTEGER DEFAULT 0,
    inactive_days     INTEGER NOT NULL,
    total_users       INTEGER DEFAULT 0,
    without_mfa       INTEGER DEFAULT 0,
    admin_access      INTEGER DEFAULT 0,
    wildcard_policy   INTEGER DEFAULT 0,
    inactive          INTEGER DEFAULT 0,
    risky_users       INTEGER DEFAULT 0,
    credential_errors INTEGER DEFAULT 0,
    cli_version       TEXT,
    run_profile       TEXT,
    run_flags         TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_account_timestamp
    ON runs(account_id, run_timestamp);
CREATE INDEX IF NOT EXISTS idx_runs_timestamp
    ON runs(run_timestamp DESC);

CREATE TABLE IF NOT EXISTS account_records (
    record_id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id                      INTEGER NOT NULL,
    position                    INTEGER NOT NULL,
    username                    TEXT NOT NULL,
    mfa_enabled                 INTEGER NOT NULL,
    admin_access                INTEGER NOT NULL,
    wildcard_policy             INTEGER NOT NULL,
    last_used                   TEXT NOT NULL,
    inactive                    INTEGER NOT NULL,
    credential_data_unavailable INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_account_records_run ON account_records(run_id, position);
CREATE INDEX IF NOT EXISTS idx_account_records_username ON account_records(username);
`
