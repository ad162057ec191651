// Package rss serves per-user activity feeds for feed readers.
package rss

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"

	"github.com/learnloop/learnloop/internal/profile"
	"github.com/learnloop/learnloop/server/service/modules"
	"github.com/learnloop/learnloop/server/timefmt"
	"github.com/learnloop/learnloop/store"
)

const feedItemLimit = 20

// RSSService renders activity feeds.
type RSSService struct {
	Profile *profile.Profile
	Modules *modules.Services
}

// NewRSSService creates a feed service over the module services.
func NewRSSService(p *profile.Profile, mods *modules.Services) *RSSService {
	return &RSSService{
		Profile: p,
		Modules: mods,
	}
}

// RegisterRoutes mounts the feed routes.
func (s *RSSService) RegisterRoutes(echoServer *echo.Echo) {
	echoServer.GET("/u/:uid/activity.rss", s.GetUserActivityFeed)
}

// GetUserActivityFeed returns a user's recent activity as RSS.
// GET /u/:uid/activity.rss
func (s *RSSService) GetUserActivityFeed(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := s.Modules.Users.GetByUID(ctx, c.Param("uid"))
	if err != nil {
		return c.String(http.StatusInternalServerError, "failed to resolve user")
	}
	if user == nil {
		return c.String(http.StatusNotFound, "user not found")
	}

	activities, err := s.Modules.Activities.ListByActor(ctx, user.ID, feedItemLimit)
	if err != nil {
		return c.String(http.StatusInternalServerError, "failed to load activities")
	}

	baseURL := s.Profile.InstanceURL
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("Activity of %s", user.Nickname),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/u/%s", baseURL, user.UID)},
		Description: fmt.Sprintf("Recent learning activity of %s", user.Nickname),
		Created:     time.Now(),
	}

	now := time.Now()
	feed.Items = make([]*feeds.Item, 0, len(activities))
	for _, activity := range activities {
		eventTime := time.Unix(activity.CreatedTs, 0)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          activity.UID,
			Title:       itemTitle(activity),
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/activities/%s", baseURL, activity.UID)},
			Description: fmt.Sprintf("%s (%s)", activity.Message, timefmt.Relative(now, eventTime)),
			Created:     eventTime,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return c.String(http.StatusInternalServerError, "failed to render feed")
	}
	return c.Blob(http.StatusOK, "application/rss+xml", []byte(rss))
}

func itemTitle(activity *store.Activity) string {
	switch activity.Kind {
	case store.ActivityEnrolled:
		return "Enrolled in a course"
	case store.ActivityCompletedItem:
		return "Completed a course item"
	case store.ActivityCompletedCourse:
		return "Completed a course"
	case store.ActivityPurchased:
		return "Purchased a course"
	case store.ActivityPublishedCourse:
		return "Published a course"
	}
	return "Activity"
}
