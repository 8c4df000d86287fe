package semaphore

import (
	"fmt"
	"net/url"
	"strconv"
)

// Defaults applied by Messages when the caller leaves them unset.
const (
	DefaultLimit = 100
	DefaultPage  = 1
)

// MessagesOptions filters a Messages listing. A nil field is not sent,
// except Limit and Page which then fall back to DefaultLimit and DefaultPage.
type MessagesOptions struct {
	Limit      *int
	Page       *int
	StartDate  *string
	EndDate    *string
	Status     *string
	Network    *string
	SenderName *string
}

// Int returns a pointer to v, for filling MessagesOptions.
func Int(v int) *int { return &v }

// String returns a pointer to v, for filling MessagesOptions.
func String(v string) *string { return &v }

// query renders the options as wire parameters, apikey excluded.
func (o MessagesOptions) query() url.Values {
	limit, page := DefaultLimit, DefaultPage
	if o.Limit != nil {
		limit = *o.Limit
	}
	if o.Page != nil {
		page = *o.Page
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("page", strconv.Itoa(page))
	setIfPresent(q, "startDate", o.StartDate)
	setIfPresent(q, "endDate", o.EndDate)
	setIfPresent(q, "status", o.Status)
	setIfPresent(q, "network", o.Network)
	setIfPresent(q, "sendername", o.SenderName)
	return q
}

func setIfPresent(q url.Values, key string, v *string) {
	if v != nil {
		q.Set(key, *v)
	}
}

// MessagesOptionsFromMap builds options from loosely typed input such as CLI
// flags. Recognized keys are limit, page, startDate, endDate, status,
// network and senderName; anything else is ignored.
func MessagesOptionsFromMap(m map[string]string) (MessagesOptions, error) {
	var opts MessagesOptions
	for key, value := range m {
		switch key {
		case "limit":
			n, err := parseIntOption(key, value)
			if err != nil {
				return MessagesOptions{}, err
			}
			opts.Limit = &n
		case "page":
			n, err := parseIntOption(key, value)
			if err != nil {
				return MessagesOptions{}, err
			}
			opts.Page = &n
		case "startDate":
			opts.StartDate = String(value)
		case "endDate":
			opts.EndDate = String(value)
		case "status":
			opts.Status = String(value)
		case "network":
			opts.Network = String(value)
		case "senderName":
			opts.SenderName = String(value)
		}
	}
	return opts, nil
}

func parseIntOption(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ValidationError{
			Field:   key,
			Message: fmt.Sprintf("%q is not an integer", value),
			Err:     err,
		}
	}
	return n, nil
}
