package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/abhisek/coursekit/internal/curriculum"
)

// Course is a course summary as listed by the backend.
type Course struct {
	ID             curriculum.ID `json:"_id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Category       string        `json:"category"`
	InstructorName string        `json:"instructorName"`
	Image          string        `json:"image"`
	IsPublished    bool          `json:"isPublished"`
	AverageRating  float64       `json:"averageRating"`
	RatingsCount   int           `json:"ratingsCount"`
	// Progress is the completion percentage, present on enrolled listings.
	Progress float64 `json:"progress"`
}

const (
	routePublished  = "/api/courses/published"
	routeCourse     = "/api/courses/{courseId}"
	routeCurriculum = "/api/courses/{courseId}/curriculum"
	routeEnroll     = "/api/courses/{courseId}/enroll"
	routeEnrolled   = "/api/courses/student/enrolled"
)

// PublishedCourses lists every published course.
func (c *Client) PublishedCourses(ctx context.Context) ([]Course, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, route: routePublished})
	if err != nil {
		return nil, err
	}
	return decodeCourses(body)
}

// Course fetches one course.
func (c *Client) Course(ctx context.Context, courseID string) (*Course, error) {
	body, err := c.do(ctx, call{
		method: http.MethodGet,
		route:  routeCourse,
		params: map[string]string{"courseId": courseID},
	})
	if err != nil {
		return nil, err
	}
	if isEmpty(body) {
		return nil, ErrNoData
	}
	var course Course
	if err := json.Unmarshal(body, &course); err != nil {
		return nil, fmt.Errorf("decode course: %w", err)
	}
	if course.ID == "" {
		return nil, ErrNoData
	}
	return &course, nil
}

// Curriculum fetches a course's ordered section tree.
func (c *Client) Curriculum(ctx context.Context, courseID string) (curriculum.Curriculum, error) {
	body, err := c.do(ctx, call{
		method: http.MethodGet,
		route:  routeCurriculum,
		params: map[string]string{"courseId": courseID},
	})
	if err != nil {
		return nil, err
	}
	cur, err := curriculum.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("decode curriculum: %w", err)
	}
	return cur, nil
}

// Enroll enrolls the signed-in learner in a course.
func (c *Client) Enroll(ctx context.Context, courseID string) error {
	_, err := c.do(ctx, call{
		method: http.MethodPost,
		route:  routeEnroll,
		params: map[string]string{"courseId": courseID},
		auth:   true,
	})
	return err
}

// EnrolledCourses lists the signed-in learner's courses.
func (c *Client) EnrolledCourses(ctx context.Context) ([]Course, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, route: routeEnrolled, auth: true})
	if err != nil {
		return nil, err
	}
	return decodeCourses(body)
}

func decodeCourses(body []byte) ([]Course, error) {
	if isEmpty(body) {
		return []Course{}, nil
	}
	var courses []Course
	if err := json.Unmarshal(body, &courses); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return courses, nil
}
