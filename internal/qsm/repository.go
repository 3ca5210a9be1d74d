package qsm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// combinedSystem is the quiz grading system the importer requires: points
// and correctness are tracked together.
const combinedSystem = 3

// qsmTaxonomy is the taxonomy name the plugin files question terms under.
const qsmTaxonomy = "qsm_category"

// PostOptions drive the wp_posts row that publishes a quiz.
type PostOptions struct {
	AuthorID int64
	Status   string
	SiteURL  string
}

// Repository wraps the store's MySQL schema behind the operations the
// import needs.
type Repository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewRepository(db *gorm.DB, logger zerolog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// GetOrCreateQuiz finds a quiz by exact name, creating it when absent.
// A created quiz carries the full default column set the old schema's
// NOT NULL constraints demand.
func (r *Repository) GetOrCreateQuiz(ctx context.Context, name string) (int64, error) {
	var quiz Quiz
	err := r.db.WithContext(ctx).Where("quiz_name = ?", name).First(&quiz).Error
	if err == nil {
		return quiz.QuizID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("lookup quiz %q: %w", name, err)
	}

	quiz = newQuiz(name)
	if err := r.db.WithContext(ctx).Create(&quiz).Error; err != nil {
		return 0, fmt.Errorf("create quiz %q: %w", name, err)
	}
	r.logger.Info().Str("quiz", name).Int64("quiz_id", quiz.QuizID).Msg("quiz created")
	return quiz.QuizID, nil
}

// EnsureCombinedSystem forces the quiz onto the combined grading system so
// point values in the answer arrays take effect, and turns score display on.
func (r *Repository) EnsureCombinedSystem(ctx context.Context, quizID int64) error {
	err := r.db.WithContext(ctx).
		Model(&Quiz{}).
		Where("quiz_id = ?", quizID).
		Updates(map[string]any{"quiz_system": combinedSystem, "show_score": 1}).Error
	if err != nil {
		return fmt.Errorf("set combined system on quiz %d: %w", quizID, err)
	}
	return nil
}

// EnsureTerms finds or creates the named terms and returns name to term id.
func (r *Repository) EnsureTerms(ctx context.Context, names []string) (map[string]int64, error) {
	out := make(map[string]int64, len(names))
	for _, name := range names {
		var term Term
		err := r.db.WithContext(ctx).Where("name = ?", name).First(&term).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			term = Term{Name: name, Slug: slugify(name)}
			err = r.db.WithContext(ctx).Create(&term).Error
		}
		if err != nil {
			return nil, fmt.Errorf("ensure term %q: %w", name, err)
		}
		out[name] = term.TermID
	}
	return out, nil
}

// InsertQuestion stores one mapped question and returns its generated id.
func (r *Repository) InsertQuestion(ctx context.Context, q Question) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&q).Error; err != nil {
		return 0, fmt.Errorf("insert question for quiz %d: %w", q.QuizID, err)
	}
	return q.QuestionID, nil
}

// AttachTerm links a question to a term under the plugin's taxonomy,
// tolerating an existing link.
func (r *Repository) AttachTerm(ctx context.Context, questionID, quizID, termID int64) error {
	rel := QuestionTerm{
		QuestionID: questionID,
		QuizID:     quizID,
		TermID:     termID,
		Taxonomy:   qsmTaxonomy,
	}
	err := r.db.WithContext(ctx).Where(rel).FirstOrCreate(&rel).Error
	if err != nil {
		return fmt.Errorf("attach term %d to question %d: %w", termID, questionID, err)
	}
	return nil
}

// EnsureQuizPost returns the id of the qsm_quiz post that publishes the
// quiz, creating it when no non-trashed post carries the quiz's shortcode.
// Without this post an auto-created quiz never surfaces in WordPress.
func (r *Repository) EnsureQuizPost(ctx context.Context, quizID int64, quizName string, opts PostOptions) (int64, error) {
	shortcode := fmt.Sprintf("[mlw_quizmaster quiz=%d]", quizID)

	var post Post
	err := r.db.WithContext(ctx).
		Where("post_type = ? AND post_status <> ? AND post_content LIKE ?",
			"qsm_quiz", "trash", "%"+shortcode+"%").
		Order("ID DESC").
		First(&post).Error
	if err == nil {
		return post.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("lookup quiz post for quiz %d: %w", quizID, err)
	}

	slug, err := r.uniqueSlug(ctx, slugify(quizName))
	if err != nil {
		return 0, err
	}

	now := time.Now()
	post = Post{
		Author:     opts.AuthorID,
		Date:       now,
		DateGMT:    now.UTC(),
		Content:    shortcode,
		Title:      quizName,
		Status:     opts.Status,
		CommentSt:  "closed",
		PingStatus: "closed",
		Name:       slug,
		Modified:   now,
		ModifiedG:  now.UTC(),
		Type:       "qsm_quiz",
	}
	if err := r.db.WithContext(ctx).Create(&post).Error; err != nil {
		return 0, fmt.Errorf("create quiz post for quiz %d: %w", quizID, err)
	}

	if opts.SiteURL != "" {
		guid := strings.TrimRight(opts.SiteURL, "/") +
			"/?post_type=qsm_quiz&p=" + url.QueryEscape(fmt.Sprint(post.ID))
		err := r.db.WithContext(ctx).
			Model(&Post{}).
			Where("ID = ?", post.ID).
			Update("guid", guid).Error
		if err != nil {
			return 0, fmt.Errorf("set guid on post %d: %w", post.ID, err)
		}
	}

	r.logger.Info().
		Int64("quiz_id", quizID).
		Int64("post_id", post.ID).
		Str("slug", slug).
		Msg("quiz post created")
	return post.ID, nil
}

// UpsertPostMeta writes one wp_postmeta key, updating the value in place
// when the key already exists.
func (r *Repository) UpsertPostMeta(ctx context.Context, postID int64, key, value string) error {
	var meta PostMeta
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND meta_key = ?", postID, key).
		Assign(PostMeta{Value: value}).
		FirstOrCreate(&meta).Error
	if err != nil {
		return fmt.Errorf("upsert postmeta %q on post %d: %w", key, postID, err)
	}
	return nil
}

// UpdateQuizPages rebuilds the single-page qpages/pages layout with the
// given question ids in order.
func (r *Repository) UpdateQuizPages(ctx context.Context, quizID int64, questionIDs []int64) error {
	qpages, err := BuildQPages(questionIDs)
	if err != nil {
		return err
	}
	pages, err := BuildPages(questionIDs)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).
		Model(&Quiz{}).
		Where("quiz_id = ?", quizID).
		Updates(map[string]any{"qpages": qpages, "pages": pages}).Error
	if err != nil {
		return fmt.Errorf("update pages on quiz %d: %w", quizID, err)
	}
	return nil
}

// uniqueSlug appends -2, -3, ... until the slug is free in wp_posts.
func (r *Repository) uniqueSlug(ctx context.Context, base string) (string, error) {
	slug := base
	for counter := 2; ; counter++ {
		var count int64
		err := r.db.WithContext(ctx).
			Model(&Post{}).
			Where("post_name = ?", slug).
			Count(&count).Error
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", slug, err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
