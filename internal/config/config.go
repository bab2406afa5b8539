package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Devotional/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Devotional"
	AppID             = "com.github.tartampluch.go-devotional"
	KeyringService    = "com.github.tartampluch.go-devotional"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	SettingsFileName  = "settings.yaml"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for logs and the settings file.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	CmdRoot   = "go-devotional"
	CmdHeader = "header"
	CmdWeek   = "week"
	CmdPeople = "people"
	CmdDone   = "done"
	CmdServe  = "serve"

	FlagVersion = "version"
	FlagDebug   = "debug"
	FlagConfig  = "config"
	FlagDate    = "date"
	FlagScheme  = "scheme"
	FlagOffset  = "offset"
	FlagUndo    = "undo"

	FlagDescVersion = "Show application version and exit"
	FlagDescDebug   = "Enable debug logging to stdout"
	FlagDescConfig  = "Path to the settings file"
	FlagDescDate    = "Reference date (YYYY-MM-DD), defaults to today"
	FlagDescScheme  = "Week numbering scheme: iso, us or ordinal"
	FlagDescOffset  = "Week offset relative to the reference date (-1 = last week)"
	FlagDescUndo    = "Mark the day as not completed"

	ShortRoot   = "Devotional companion: weeks, readings and birthdays"
	ShortHeader = "Print the calendar header for a date"
	ShortWeek   = "Show the devotional week, its reading and completed days"
	ShortPeople = "List upcoming birthdays and half-birthdays"
	ShortDone   = "Mark a day of the devotional week as completed"
	ShortServe  = "Serve the calendar feed and JSON views over HTTP"
	UseDone     = "done <YYYY-MM-DD>"

	MsgVersionOutput = "%s version %s (%s/%s)\n"

	OutWeekTitle   = "%s (%s - %s)\n"
	OutWeekDay     = "  [%s] %s%s\n"
	OutWeekToday   = "  <- today"
	OutWeekPlan    = "Plan: %s\n"
	OutWeekNoPlan  = "No reading for week %d (%s)\n"
	OutWeekReading = "  %s\n"
	OutWeekVerses  = "Memory verses:\n"
	OutWeekDone    = "Completed: %d/7\n"
	OutPeopleRow   = "%-24s next %s (%3d d)  half %s  %s\n"
	OutPeopleAge   = "turns %d, %.2f y"
	OutPeopleNoAge = "age unknown"
	OutPeopleToday = "  * today"
	OutPeopleNone  = "No people found"
	OutMarkDone    = "x"
	OutMarkOpen    = " "
)

// -----------------------------------------------------------------------------
// Environment Overrides (.env)
// -----------------------------------------------------------------------------

const (
	EnvFile   = ".env"
	EnvConfig = "DEVOTIONAL_CONFIG"
	EnvPort   = "DEVOTIONAL_PORT"
	EnvScheme = "DEVOTIONAL_SCHEME"
)

// -----------------------------------------------------------------------------
// Reading Plans
// -----------------------------------------------------------------------------

const (
	PlanNewTestament = "New Testament"
	PlanOldTestament = "Old Testament"
	PlanWholeBible   = "Whole Bible"
)

// ReadingPlans lists the plan names a user can select.
var ReadingPlans = []string{PlanNewTestament, PlanOldTestament, PlanWholeBible}

// SupportedLanguages defines the list of available languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyEvtSummary      = "event_summary"       // Requires Name
	TKeyEvtSummaryAge   = "event_summary_age"   // Requires Name, Age
	TKeyEvtSummaryBirth = "event_summary_birth" // Requires Name (For age 0)
	TKeyEvtHalfBirthday = "event_half_birthday" // Requires Name
	TKeyEvtWeekSummary  = "event_week_summary"  // Requires Week, Plan
	TKeyStatusToday     = "status_today"        // Requires Count > 0
	TKeyStatusTodayZero = "status_today_zero"
	TKeyStatusSyncError = "status_sync_error"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb        = "web"
	SourceModeLocal      = "local"
	DefaultPort          = "18080"
	DefaultRefreshMin    = 60
	DefaultLanguage      = "en"
	DefaultWeekScheme    = "us"
	DefaultMeetingDay    = 5 // Friday
	DefaultReadingPlan   = PlanNewTestament
	DefaultLeapYear      = 2000 // Leap year fallback for dates like --02-29
	DefaultReminderValue = 1
	UIDSalt              = "go-devotional-v1-" // Salt for deterministic UID generation
	MinWeekday           = 0
	MaxWeekday           = 6
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
	ISOTime           = "T"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Devotional//Engine//EN"
	ICalCalName   = "Devotional"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "godevotional"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTEnd       = "DTEND"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropCategories  = "CATEGORIES"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	CategoryBirthday     = "BIRTHDAY"
	CategoryHalfBirthday = "HALF-BIRTHDAY"
	CategoryDevotional   = "DEVOTIONAL"

	VCardBDAY  = "BDAY"
	VCardFN    = "FN"
	VCardUID   = "UID"
	VCardColor = "X-COLOR"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing BDAY fields and CLI input
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatUS        = "01/02/2006"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"
	FormatHalfUID   = "%s-half-%s@%s"
	FormatWeekUID   = "week-%s@%s"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"

	RouteRoot     = "/"
	RouteCalendar = "/calendar.ics"
	RouteHeader   = "/api/header"
	RouteWeek     = "/api/week"
	RoutePeople   = "/api/people"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	MimeTextHTML        = "text/html"
	CacheControlPrivate = "private, no-cache"

	// AcceptVCard prefers vCard but still accepts loosely labelled responses.
	AcceptVCard = "text/vcard, text/x-vcard;q=0.9, text/directory;q=0.8, */*;q=0.1"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty  = "configuration error: local path is empty"
	ErrWebURLEmpty     = "configuration error: web URL is empty"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrModeUnsupport   = "configuration error: unsupported source mode"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrPortNumber      = "server port must be a number"
	ErrPortRange       = "server port must be between 1 and 65535"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrConfigDir       = "could not determine user config dir"
	ErrCreateDir       = "could not create app directory"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrJSONEncode      = "failed to encode JSON view"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrSettingsRead    = "failed to read settings file"
	ErrSettingsParse   = "failed to parse settings file"
	ErrSettingsWrite   = "failed to write settings file"
	ErrWeekScheme      = "week scheme must be iso, us or ordinal"
	ErrMeetingDay      = "meeting day must be between 0 (Sunday) and 6 (Saturday)"
	ErrReadingPlan     = "unknown reading plan"
	ErrCompletedDay    = "completed day must be formatted YYYY-MM-DD"
	ErrLanguage        = "unsupported language"
	ErrRefreshInterval = "refresh interval must be positive"
	ErrReminderUnit    = "reminder unit must be d, h or m"
	ErrReminderDir     = "reminder direction must be before or after"
	ErrPlanFile        = "failed to load reading plan file"
	ErrPlanLookup      = "reading plan lookup failed"
	ErrEnvFile         = "could not load .env file"
	ErrWatchSettings   = "failed to watch settings file"
	ErrFetchRequest    = "failed to create request"
	ErrFetchNetwork    = "network error during fetch"
	ErrFetchStatus     = "server returned unexpected status"
	ErrFetchMediaType  = "server did not return a vCard"
	ErrDateFlag        = "invalid --date value"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackSummary      = "Birthday: %s"
	FallbackSummaryAge   = "Birthday: %s (%d)"
	FallbackSummaryBirth = "Birthday: %s (birth)"
	FallbackHalfBirthday = "Half-birthday: %s"
	FallbackWeekSummary  = "%s: %s"
	FallbackStatusToday  = "%d birthday(s) today"
	FallbackStatusError  = "Sync error"
	FallbackName         = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgSyncStarted    = "Synchronization started..."
	MsgSyncFailed     = "Synchronization failed. Check logs."
	MsgSyncReq        = "Sync requested"
	MsgSyncDone       = "Synchronization finished"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgAppStop        = "Application stopped gracefully"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgGenSuccess     = "Calendar generation successful"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Snapshot cache updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgBdayToday      = "Birthday found today"
	MsgSettingsNew    = "Settings file not found, using defaults"
	MsgSettingsSaved  = "Settings saved"
	MsgPlanMissing    = "No reading for this week"
	MsgEnvOverride    = "Environment override applied"
	MsgPlanLoaded     = "Reading plans loaded"
	MsgDayMarked      = "Completed days updated"
	MsgWeekResolved   = "Devotional week resolved"
	MsgSettingsReload = "Settings file changed, reloading"
	MsgUpdateSync     = "Updating sync interval"
	MsgWatchStart     = "Watching settings file"
	MsgCtxCancel      = "Shutdown signal received"
	MsgFetchStatus    = "Server returned error status"
	MsgFetchDone      = "Address book downloaded"
	MsgBookDecoded    = "Address book decoded"
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyToday     = "birthdays_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDuration  = "duration_ms"
	LogKeyWeek      = "week"
	LogKeyScheme    = "scheme"
	LogKeyPlan      = "plan"
	LogKeyPath      = "path"
	LogKeyEnv       = "env"
	LogKeyMediaType = "media_type"
	LogKeyOld       = "old"
	LogKeyNew       = "new"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompApp      = "app"
	CompCLI      = "cli"
	CompConfig   = "config"
	CompEngine   = "engine"
	CompDevotion = "devotion"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompWorker   = "worker"
	CompMain     = "main"
	CompI18n     = "i18n"
)
