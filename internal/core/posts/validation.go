package posts

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/minhchau-creator/blogger.com/internal/core/plaintext"
)

// normalizeTags lowercases and trims tags, dropping empty ones
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// normalizeCreateRequest cleans the text fields of req and checks the
// publishing rules. Drafts only need a title.
func normalizeCreateRequest(req CreatePostRequest) (CreatePostRequest, error) {
	req.ID = strings.TrimSpace(req.ID)
	req.Title = plaintext.Clean(req.Title)
	req.Description = plaintext.Clean(req.Description)
	req.Banner = strings.TrimSpace(req.Banner)
	req.Tags = normalizeTags(req.Tags)

	if req.Title == "" {
		return req, ErrTitleRequired
	}
	if len(req.Tags) > maxTags {
		return req, ErrTooManyTags
	}
	for _, tag := range req.Tags {
		if plaintext.Len(tag) > maxTagLength {
			return req, ErrTagTooLong
		}
	}
	// des is bounded by char_length in the database, so count code points
	if utf8.RuneCountInString(req.Description) > maxDescriptionLength {
		return req, ErrDescription
	}
	if req.Content.Blocks == nil {
		req.Content.Blocks = []Block{}
	}

	if req.Draft {
		return req, nil
	}

	if req.Description == "" {
		return req, ErrDescription
	}
	if req.Banner == "" {
		return req, ErrBannerRequired
	}
	if len(req.Content.Blocks) == 0 {
		return req, ErrContentRequired
	}
	if len(req.Tags) == 0 {
		return req, ErrTagsRequired
	}
	return req, nil
}

// slugify joins the ASCII letters and digits of title with hyphens
func slugify(title string) string {
	words := strings.FieldsFunc(title, func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	return strings.Join(words, "-")
}

// newBlogID builds the public id of a post: its title slug and a random suffix
func newBlogID(title string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:blogIDSuffixLength]
	return slugify(title) + suffix
}

// parseDateRange parses an optional inclusive date range. A date-only upper
// bound covers its whole day. The range is ignored unless both ends are set.
func parseDateRange(from, to string) (*time.Time, *time.Time, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return nil, nil, nil
	}

	start, _, err := parseDate(from)
	if err != nil {
		return nil, nil, err
	}
	end, dateOnly, err := parseDate(to)
	if err != nil {
		return nil, nil, err
	}
	if dateOnly {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	return &start, &end, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, ErrInvalidDate
}

// pageOffset converts a 1-based page into an offset
func pageOffset(page, size int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}

// searchFilter picks the first criterion set on req
func searchFilter(req SearchRequest) (Filter, error) {
	switch {
	case strings.TrimSpace(req.Tag) != "":
		return Filter{
			Tag:           strings.ToLower(strings.TrimSpace(req.Tag)),
			ExcludeBlogID: strings.TrimSpace(req.EliminateBlog),
		}, nil
	case strings.TrimSpace(req.Query) != "":
		return Filter{Query: strings.TrimSpace(req.Query)}, nil
	case strings.TrimSpace(req.Author) != "":
		return Filter{AuthorID: strings.TrimSpace(req.Author)}, nil
	default:
		return Filter{}, ErrNoSearchCriteria
	}
}
