package qsm

import "time"

// GORM models for the slice of the legacy schema the importer touches.
// The schema is owned by the store's plugin; the importer never migrates
// it. The old tables reject rows that omit their NOT NULL columns, so the
// models declare every column the insert paths must fill, not just the
// ones the importer reads back.

// Quiz is one quiz row. The qpages/pages columns are written separately
// through UpdateQuizPages; they are absent from older schema revisions
// and must not ride along on Create.
type Quiz struct {
	QuizID   int64  `gorm:"column:quiz_id;primaryKey;autoIncrement"`
	QuizName string `gorm:"column:quiz_name"`

	MessageBefore      string `gorm:"column:message_before"`
	MessageAfter       string `gorm:"column:message_after"`
	MessageComment     string `gorm:"column:message_comment"`
	MessageEndTemplate string `gorm:"column:message_end_template"`
	UserEmailTemplate  string `gorm:"column:user_email_template"`
	AdminEmailTemplate string `gorm:"column:admin_email_template"`

	SubmitButtonText  string `gorm:"column:submit_button_text"`
	NameFieldText     string `gorm:"column:name_field_text"`
	BusinessFieldText string `gorm:"column:business_field_text"`
	EmailFieldText    string `gorm:"column:email_field_text"`
	PhoneFieldText    string `gorm:"column:phone_field_text"`
	CommentFieldText  string `gorm:"column:comment_field_text"`
	EmailFromText     string `gorm:"column:email_from_text"`

	QuestionAnswerTemplate string `gorm:"column:question_answer_template"`
	LeaderboardTemplate    string `gorm:"column:leaderboard_template"`

	QuizSystem          int `gorm:"column:quiz_system"`
	RandomnessOrder     int `gorm:"column:randomness_order"`
	LoggedInUserContact int `gorm:"column:loggedin_user_contact"`
	ShowScore           int `gorm:"column:show_score"`
	SendUserEmail       int `gorm:"column:send_user_email"`
	SendAdminEmail      int `gorm:"column:send_admin_email"`
	ContactInfoLocation int `gorm:"column:contact_info_location"`
	UserName            int `gorm:"column:user_name"`
	UserComp            int `gorm:"column:user_comp"`
	UserEmail           int `gorm:"column:user_email"`
	UserPhone           int `gorm:"column:user_phone"`

	AdminEmail          string `gorm:"column:admin_email"`
	CommentSection      int    `gorm:"column:comment_section"`
	QuestionFromTotal   int    `gorm:"column:question_from_total"`
	TotalUserTries      int    `gorm:"column:total_user_tries"`
	TotalUserTriesText  string `gorm:"column:total_user_tries_text"`
	CertificateTemplate string `gorm:"column:certificate_template"`
	SocialMedia         int    `gorm:"column:social_media"`
	SocialMediaText     string `gorm:"column:social_media_text"`
	Pagination          int    `gorm:"column:pagination"`
	PaginationText      string `gorm:"column:pagination_text"`
	TimerLimit          int    `gorm:"column:timer_limit"`
	// The schema's column really is spelled quiz_stye.
	QuizStyle         string `gorm:"column:quiz_stye"`
	QuestionNumbering int    `gorm:"column:question_numbering"`
	QuizSettings      string `gorm:"column:quiz_settings"`
	ThemeSelected     string `gorm:"column:theme_selected"`

	LastActivity time.Time `gorm:"column:last_activity"`

	RequireLogIn          int    `gorm:"column:require_log_in"`
	RequireLogInText      string `gorm:"column:require_log_in_text"`
	LimitTotalEntries     int    `gorm:"column:limit_total_entries"`
	LimitTotalEntriesText string `gorm:"column:limit_total_entries_text"`
	ScheduledTimeframe    string `gorm:"column:scheduled_timeframe"`
	ScheduledTimeframeTxt string `gorm:"column:scheduled_timeframe_text"`
	DisableAnswerOnSelect int    `gorm:"column:disable_answer_onselect"`
	AjaxShowCorrect       int    `gorm:"column:ajax_show_correct"`
	QuizViews             int    `gorm:"column:quiz_views"`
	QuizTaken             int    `gorm:"column:quiz_taken"`
	Deleted               int    `gorm:"column:deleted"`
	QuizAuthorID          int64  `gorm:"column:quiz_author_id"`
}

func (Quiz) TableName() string { return "wp_mlw_quizzes" }

// newQuiz fills the quiz defaults the old schema demands on insert: the
// contact form collects only the name, the score is shown, and the grading
// system is combined from the start.
func newQuiz(name string) Quiz {
	return Quiz{
		QuizName:         name,
		SubmitButtonText: "Отправить",
		NameFieldText:    "Фамилия и имя",
		EmailFieldText:   "Email",
		PhoneFieldText:   "Телефон",
		CommentFieldText: "Комментарий",
		QuizSystem:       combinedSystem,
		ShowScore:        1,
		UserName:         1,
		LastActivity:     time.Now(),
	}
}

// Question is one question row. AnswerArray and Settings carry the two
// serialized legacy columns; the answer_one..answer_six family is unused
// by this pipeline but NOT NULL in the old schema, so it is written empty.
type Question struct {
	QuestionID   int64  `gorm:"column:question_id;primaryKey;autoIncrement"`
	QuizID       int64  `gorm:"column:quiz_id"`
	QuestionName string `gorm:"column:question_name"`

	AnswerOne         string  `gorm:"column:answer_one"`
	AnswerOnePoints   float64 `gorm:"column:answer_one_points"`
	AnswerTwo         string  `gorm:"column:answer_two"`
	AnswerTwoPoints   float64 `gorm:"column:answer_two_points"`
	AnswerThree       string  `gorm:"column:answer_three"`
	AnswerThreePoints float64 `gorm:"column:answer_three_points"`
	AnswerFour        string  `gorm:"column:answer_four"`
	AnswerFourPoints  float64 `gorm:"column:answer_four_points"`
	AnswerFive        string  `gorm:"column:answer_five"`
	AnswerFivePoints  float64 `gorm:"column:answer_five_points"`
	AnswerSix         string  `gorm:"column:answer_six"`
	AnswerSixPoints   float64 `gorm:"column:answer_six_points"`
	CorrectAnswer     int     `gorm:"column:correct_answer"`

	TypeLegacy  int    `gorm:"column:question_type"`
	TypeCode    string `gorm:"column:question_type_new"`
	Settings    string `gorm:"column:question_settings"`
	AnswerArray string `gorm:"column:answer_array"`
	AnswerInfo  string `gorm:"column:question_answer_info"`
	Comments    int    `gorm:"column:comments"`
	Hints       string `gorm:"column:hints"`
	Category    string `gorm:"column:category"`
	Order       int    `gorm:"column:question_order"`

	LinkedQuestion      *int64 `gorm:"column:linked_question"`
	Deleted             int    `gorm:"column:deleted"`
	DeletedQuestionBank int    `gorm:"column:deleted_question_bank"`
}

func (Question) TableName() string { return "wp_mlw_questions" }

// Term is one taxonomy term (the difficulty labels).
type Term struct {
	TermID    int64  `gorm:"column:term_id;primaryKey;autoIncrement"`
	Name      string `gorm:"column:name"`
	Slug      string `gorm:"column:slug"`
	TermGroup int    `gorm:"column:term_group"`
}

func (Term) TableName() string { return "wp_terms" }

// QuestionTerm attaches a term to a question within a quiz under the
// plugin's own taxonomy table.
type QuestionTerm struct {
	QuestionID int64  `gorm:"column:question_id"`
	QuizID     int64  `gorm:"column:quiz_id"`
	TermID     int64  `gorm:"column:term_id"`
	Taxonomy   string `gorm:"column:taxonomy"`
}

func (QuestionTerm) TableName() string { return "wp_mlw_question_terms" }

// Post is the slice of wp_posts needed to publish a quiz: the qsm_quiz
// post whose shortcode makes the quiz reachable from WordPress.
type Post struct {
	ID         int64     `gorm:"column:ID;primaryKey;autoIncrement"`
	Author     int64     `gorm:"column:post_author"`
	Date       time.Time `gorm:"column:post_date"`
	DateGMT    time.Time `gorm:"column:post_date_gmt"`
	Content    string    `gorm:"column:post_content"`
	Title      string    `gorm:"column:post_title"`
	Excerpt    string    `gorm:"column:post_excerpt"`
	Status     string    `gorm:"column:post_status"`
	CommentSt  string    `gorm:"column:comment_status"`
	PingStatus string    `gorm:"column:ping_status"`
	Password   string    `gorm:"column:post_password"`
	Name       string    `gorm:"column:post_name"`
	ToPing     string    `gorm:"column:to_ping"`
	Pinged     string    `gorm:"column:pinged"`
	Modified   time.Time `gorm:"column:post_modified"`
	ModifiedG  time.Time `gorm:"column:post_modified_gmt"`
	Filtered   string    `gorm:"column:post_content_filtered"`
	Parent     int64     `gorm:"column:post_parent"`
	MenuOrder  int       `gorm:"column:menu_order"`
	Type       string    `gorm:"column:post_type"`
	MimeType   string    `gorm:"column:post_mime_type"`
	Comments   int64     `gorm:"column:comment_count"`
	GUID       string    `gorm:"column:guid"`
}

func (Post) TableName() string { return "wp_posts" }

// PostMeta is one wp_postmeta row.
type PostMeta struct {
	MetaID int64  `gorm:"column:meta_id;primaryKey;autoIncrement"`
	PostID int64  `gorm:"column:post_id"`
	Key    string `gorm:"column:meta_key"`
	Value  string `gorm:"column:meta_value"`
}

func (PostMeta) TableName() string { return "wp_postmeta" }
