package db

const schemaUsersSQLite = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE
);
`

const schemaAudioFilesSQLite = `
CREATE TABLE IF NOT EXISTS audio_files (
    id TEXT PRIMARY KEY,
    filename TEXT NOT NULL,
    user_id TEXT NOT NULL REFERENCES users(id),
    created_at TIMESTAMP NOT NULL,
    mime_type TEXT NOT NULL,
    user_folder TEXT NOT NULL
);
`

const schemaPlaylistsSQLite = `
CREATE TABLE IF NOT EXISTS playlists (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    user_id TEXT NOT NULL REFERENCES users(id),
    created_at TIMESTAMP NOT NULL
);
`

// No UNIQUE(playlist_id, position): explicit positions are stored verbatim.
const schemaPlaylistItemsSQLite = `
CREATE TABLE IF NOT EXISTS playlist_items (
    id TEXT PRIMARY KEY,
    playlist_id TEXT NOT NULL REFERENCES playlists(id),
    audio_id TEXT NOT NULL REFERENCES audio_files(id),
    position INTEGER NOT NULL CHECK (position >= 0)
);
`

const schemaLibraryEventsSQLite = `
CREATE TABLE IF NOT EXISTS library_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    actor_id TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

const schemaUsersPostgres = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE
);
`

const schemaAudioFilesPostgres = `
CREATE TABLE IF NOT EXISTS audio_files (
    id TEXT PRIMARY KEY,
    filename TEXT NOT NULL,
    user_id TEXT NOT NULL REFERENCES users(id),
    created_at TIMESTAMPTZ NOT NULL,
    mime_type TEXT NOT NULL,
    user_folder TEXT NOT NULL
);
`

const schemaPlaylistsPostgres = `
CREATE TABLE IF NOT EXISTS playlists (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    user_id TEXT NOT NULL REFERENCES users(id),
    created_at TIMESTAMPTZ NOT NULL
);
`

const schemaPlaylistItemsPostgres = `
CREATE TABLE IF NOT EXISTS playlist_items (
    id TEXT PRIMARY KEY,
    playlist_id TEXT NOT NULL REFERENCES playlists(id),
    audio_id TEXT NOT NULL REFERENCES audio_files(id),
    position INTEGER NOT NULL CHECK (position >= 0)
);
`

const schemaLibraryEventsPostgres = `
CREATE TABLE IF NOT EXISTS library_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMPTZ NOT NULL,
    type TEXT NOT NULL,
    actor_id TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

var schemaIndexes = []string{
	`CREATE INDEX IF NOT EXISTS audio_files_user_created_idx ON audio_files(user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS playlists_user_created_idx ON playlists(user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS playlist_items_playlist_position_idx ON playlist_items(playlist_id, position)`,
	`CREATE INDEX IF NOT EXISTS playlist_items_audio_idx ON playlist_items(audio_id)`,
	`CREATE INDEX IF NOT EXISTS library_events_occurred_idx ON library_events(occurred_at)`,
}

func (d Dialect) schema() []string {
	var tables []string
	if d.IsSQLite() {
		tables = []string{
			schemaUsersSQLite,
			schemaAudioFilesSQLite,
			schemaPlaylistsSQLite,
			schemaPlaylistItemsSQLite,
			schemaLibraryEventsSQLite,
		}
	} else {
		tables = []string{
			schemaUsersPostgres,
			schemaAudioFilesPostgres,
			schemaPlaylistsPostgres,
			schemaPlaylistItemsPostgres,
			schemaLibraryEventsPostgres,
		}
	}
	return append(tables, schemaIndexes...)
}
