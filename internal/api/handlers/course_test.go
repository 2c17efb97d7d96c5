package handlers_test

import (
	"net/http"
	"testing"

	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourse_GetContent_HidesUnpurchasedCourses(t *testing.T) {
	ts := testutil.NewTestServer(t)
	course := testutil.NewCourseBuilder().Build(t, ts.DB.DB)
	_, client := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	// An existing but unpurchased course looks exactly like a missing one.
	resp, err := client.Get(ts.APIURL("/courses/" + course.ID.String() + "/content"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "course not found in your list")
}

func TestCourse_GetContent_Enrolled(t *testing.T) {
	ts := testutil.NewTestServer(t)
	course := testutil.NewCourseBuilder().Build(t, ts.DB.DB)
	_, client := testutil.NewUserBuilder().WithCourse(course.ID).BuildAndLogin(t, ts)

	resp, err := client.Get(ts.APIURL("/courses/" + course.ID.String() + "/content"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var body struct {
		Success bool             `json:"success"`
		Content []domain.Section `json:"content"`
	}
	testutil.AssertJSONResponse(t, resp, &body)
	require.Len(t, body.Content, 1)
	assert.Equal(t, "Introduction", body.Content[0].Title)
}
