package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const csvHeader = "title_y,overview,genres,keywords,tagline,cast,crew,original_language,original_title,release_date,runtime,vote_average,vote_count,popularity\n"

func TestLoadCSV_BasicRow(t *testing.T) {
	path := writeTestCSV(t, csvHeader+
		`Avatar,Blue aliens on Pandora,"[{""id"": 28, ""name"": ""Action""}]",[],Enter the world,"[{""name"": ""Sam Worthington"", ""character"": ""Jake Sully"", ""order"": 0}]","[{""name"": ""James Cameron"", ""job"": ""Director"", ""department"": ""Directing""}]",en,Avatar,2009-12-10,162.0,7.2,11800,150.437577`+"\n")

	s := New()
	loaded, err := s.LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	movie, err := s.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Avatar", movie.Title)
	assert.Equal(t, "Blue aliens on Pandora", movie.Overview)
	require.Len(t, movie.Genres, 1)
	assert.Equal(t, "Action", movie.Genres[0].Name)
	require.Len(t, movie.Cast, 1)
	assert.Equal(t, "Sam Worthington", movie.Cast[0].Name)
	assert.Equal(t, "Jake Sully", movie.Cast[0].Character)
	require.Len(t, movie.Crew, 1)
	assert.Equal(t, "Director", movie.Crew[0].Job)
	require.NotNil(t, movie.Runtime)
	assert.Equal(t, 162, *movie.Runtime)
	require.NotNil(t, movie.VoteAverage)
	assert.InDelta(t, 7.2, *movie.VoteAverage, 0.001)
	require.NotNil(t, movie.ReleaseDate)
	assert.Equal(t, "2009-12-10", *movie.ReleaseDate)

	year, ok := movie.ReleaseYear()
	assert.True(t, ok)
	assert.Equal(t, 2009, year)
}

func TestLoadCSV_MissingFieldsBecomeNil(t *testing.T) {
	path := writeTestCSV(t, csvHeader+
		"Bare Movie,,,,,,,,,,,,,\n")

	s := New()
	loaded, err := s.LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	movie, err := s.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Bare Movie", movie.Title)
	assert.Nil(t, movie.Runtime)
	assert.Nil(t, movie.VoteAverage)
	assert.Nil(t, movie.ReleaseDate)
	assert.Empty(t, movie.Genres)
}

func TestLoadCSV_BlankTitleBecomesUntitled(t *testing.T) {
	path := writeTestCSV(t, csvHeader+
		",An overview,,,,,,,,,,,,\n")

	s := New()
	_, err := s.LoadCSV(path)
	require.NoError(t, err)

	movie, err := s.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Untitled", movie.Title)
}

func TestLoadCSV_MalformedJSONColumnsAreEmptyLists(t *testing.T) {
	path := writeTestCSV(t, csvHeader+
		`Broken,,not valid json,,,also bad,,,,,,,,`+"\n")

	s := New()
	loaded, err := s.LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	movie, err := s.GetByID(1)
	require.NoError(t, err)
	assert.Empty(t, movie.Genres)
	assert.Empty(t, movie.Cast)
}

func TestLoadCSV_Latin1Fallback(t *testing.T) {
	// 0xE9 is é in Latin-1 and invalid UTF-8 on its own.
	content := []byte(csvHeader + "Am\xe9lie,,,,,,,fr,,2001-04-25,122.0,8.3,3800,45.1\n")
	path := filepath.Join(t.TempDir(), "latin1.csv")
	require.NoError(t, os.WriteFile(path, content, 0644))

	s := New()
	loaded, err := s.LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	movie, err := s.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Amélie", movie.Title)
}

func TestLoadCSV_NextIDContinuesAfterIngestion(t *testing.T) {
	path := writeTestCSV(t, csvHeader+
		"First,,,,,,,,,,,,,\n"+
		"Second,,,,,,,,,,,,,\n")

	s := New()
	loaded, err := s.LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)

	id := createTestMovie(t, s, "Third")
	assert.Equal(t, 3, id)
}

func TestLoadCSV_AllEmptyRowIsSkipped(t *testing.T) {
	path := writeTestCSV(t, csvHeader+
		",,,,,,,,,,,,,\n"+
		"Real Movie,,,,,,,,,,,,,\n")

	s := New()
	loaded, err := s.LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	movie, err := s.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Real Movie", movie.Title)
}

func TestLoadCSV_MissingFile(t *testing.T) {
	s := New()
	_, err := s.LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
