package postgres

import (
	"time"

	"github.com/google/uuid"
)

// The row types exist for AutoMigrate only; queries use raw SQL and scan into
// the domain structs directly.

type userRow struct {
	UserID       uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string     `gorm:"column:username;type:text;not null;unique"`
	DisplayName  string     `gorm:"column:display_name;type:text;not null;default:''"`
	PasswordHash string     `gorm:"column:password_hash;type:text;not null;default:''"`
	CreatedAt    time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at;type:timestamptz"`
}

func (userRow) TableName() string { return "lingot.users" }

type sessionRow struct {
	SessionID  uuid.UUID `gorm:"column:session_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	ExpiresAt  time.Time `gorm:"column:expires_at;type:timestamptz;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	LastSeenAt time.Time `gorm:"column:last_seen_at;type:timestamptz;not null;default:now()"`
}

func (sessionRow) TableName() string { return "lingot.sessions" }

// appSettingsRow is a singleton; singleton_id is always true and unique.
type appSettingsRow struct {
	SingletonID            bool      `gorm:"column:singleton_id;type:boolean;primaryKey;default:true"`
	MultiuserMode          bool      `gorm:"column:multiuser_mode;type:boolean;not null;default:false"`
	PasswordlessLogin      bool      `gorm:"column:passwordless_login;type:boolean;not null;default:false"`
	ShowUsersOnLoginScreen bool      `gorm:"column:show_users_on_login_screen;type:boolean;not null;default:false"`
	CreatedAt              time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (appSettingsRow) TableName() string { return "lingot.app_settings" }

type documentRow struct {
	DocumentID   uuid.UUID `gorm:"column:document_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:documents_dedup_key"`
	DisplayName  string    `gorm:"column:display_name;type:text;not null;uniqueIndex:documents_dedup_key"`
	LanguageCode string    `gorm:"column:language_code;type:text;not null;uniqueIndex:documents_dedup_key"`
	FilePath     string    `gorm:"column:file_path;type:text;not null;default:''"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (documentRow) TableName() string { return "lingot.documents" }

type sentenceRow struct {
	SentenceID   uuid.UUID `gorm:"column:sentence_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:sentences_dedup_key"`
	LanguageCode string    `gorm:"column:language_code;type:text;not null;uniqueIndex:sentences_dedup_key"`
	Text         string    `gorm:"column:text;type:text;not null;uniqueIndex:sentences_dedup_key"`
	AudioFile    string    `gorm:"column:audio_file;type:text;not null;default:''"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (sentenceRow) TableName() string { return "lingot.sentences" }

type wordRow struct {
	WordID       uuid.UUID `gorm:"column:word_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:words_dedup_key"`
	LanguageCode string    `gorm:"column:language_code;type:text;not null;uniqueIndex:words_dedup_key"`
	RootWord     string    `gorm:"column:root_word;type:text;not null;uniqueIndex:words_dedup_key"`
	PartOfSpeech string    `gorm:"column:part_of_speech;type:text;not null;default:unknown"`
	AudioFile    string    `gorm:"column:audio_file;type:text;not null;default:''"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (wordRow) TableName() string { return "lingot.words" }

type conjugationRow struct {
	ConjugationID uuid.UUID `gorm:"column:conjugation_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:conjugations_dedup_key"`
	WordID        uuid.UUID `gorm:"column:word_id;type:uuid;not null;index"`
	LanguageCode  string    `gorm:"column:language_code;type:text;not null;uniqueIndex:conjugations_dedup_key"`
	Text          string    `gorm:"column:text;type:text;not null;uniqueIndex:conjugations_dedup_key"`
	Article       string    `gorm:"column:article;type:text;not null;default:''"`
	GramCase      string    `gorm:"column:gram_case;type:text;not null;default:''"`
	Person        string    `gorm:"column:person;type:text;not null;default:''"`
	Gender        string    `gorm:"column:gender;type:text;not null;default:''"`
	Plurality     string    `gorm:"column:plurality;type:text;not null;default:''"`
	Politeness    string    `gorm:"column:politeness;type:text;not null;default:''"`
	Tense         string    `gorm:"column:tense;type:text;not null;default:''"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (conjugationRow) TableName() string { return "lingot.conjugations" }

type trackerRow struct {
	TrackerID     uuid.UUID `gorm:"column:tracker_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	ConjugationID uuid.UUID `gorm:"column:conjugation_id;type:uuid;not null;unique"`
	LanguageCode  string    `gorm:"column:language_code;type:text;not null"`
	Status        string    `gorm:"column:status;type:text;not null;default:unknown"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (trackerRow) TableName() string { return "lingot.learning_trackers" }

type sentenceOrderRow struct {
	DocumentID uuid.UUID `gorm:"column:document_id;type:uuid;primaryKey"`
	SentenceID uuid.UUID `gorm:"column:sentence_id;type:uuid;not null"`
	Position   int       `gorm:"column:position;type:integer;primaryKey"`
}

func (sentenceOrderRow) TableName() string { return "lingot.sentence_orders" }

type wordOrderRow struct {
	SentenceID uuid.UUID `gorm:"column:sentence_id;type:uuid;primaryKey"`
	WordID     uuid.UUID `gorm:"column:word_id;type:uuid;not null"`
	Position   int       `gorm:"column:position;type:integer;primaryKey"`
}

func (wordOrderRow) TableName() string { return "lingot.word_orders" }

func autoMigrateModels() []any {
	return []any{
		&userRow{},
		&sessionRow{},
		&appSettingsRow{},
		&documentRow{},
		&sentenceRow{},
		&wordRow{},
		&conjugationRow{},
		&trackerRow{},
		&sentenceOrderRow{},
		&wordOrderRow{},
	}
}
