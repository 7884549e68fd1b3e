package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritaslabs/veritas/internal/domain"
)

func TestExtractClaims_ClassifiesStatistic(t *testing.T) {
	claims := ExtractClaims("The city has 2.5 million residents today.", "introduction")

	require.Len(t, claims, 1)
	assert.Equal(t, domain.ClaimTypeStatistic, claims[0].Type)
	assert.Equal(t, "introduction", claims[0].Section)
	assert.InDelta(t, 0.9, claims[0].Confidence, 1e-9)
}

func TestExtractClaims_ClassifiesDefinition(t *testing.T) {
	claims := ExtractClaims("A breakwater is a structure built to protect a harbor from waves.", "section")

	require.Len(t, claims, 1)
	assert.Equal(t, domain.ClaimTypeDefinition, claims[0].Type)
}

func TestExtractClaims_ClassifiesRelationship(t *testing.T) {
	claims := ExtractClaims("Coastal erosion accelerates because storm surges strip sand from beaches.", "section")

	require.Len(t, claims, 1)
	assert.Equal(t, domain.ClaimTypeRelationship, claims[0].Type)
}

func TestExtractClaims_ClassifiesGeneralFact(t *testing.T) {
	claims := ExtractClaims("Lighthouses typically operate automated beacons throughout the night.", "section")

	require.Len(t, claims, 1)
	assert.Equal(t, domain.ClaimTypeGeneralFact, claims[0].Type)
}

func TestExtractClaims_DropsBoilerplateAndShortSentences(t *testing.T) {
	text := "Welcome to our complete guide about harbors and ports. " +
		"Let's explore the harbor together and see what makes it special. " +
		"It is big."

	assert.Empty(t, ExtractClaims(text, "introduction"))
}

func TestExtractClaims_StatisticsRankAboveGeneralFacts(t *testing.T) {
	text := "Lighthouses typically operate automated beacons throughout the night. " +
		"The oldest lighthouse still standing measures 57 meters from base to lantern."

	claims := ExtractClaims(text, "section")

	require.Len(t, claims, 2)
	assert.Equal(t, domain.ClaimTypeStatistic, claims[0].Type)
	assert.Equal(t, domain.ClaimTypeGeneralFact, claims[1].Type)
}

func TestExtractClaims_CapsAtThree(t *testing.T) {
	text := "The port moved 4 million tons of cargo last year. " +
		"Container traffic grew 12 percent over the decade. " +
		"The harbor channel is dredged to 15 meters depth. " +
		"Nearly 8 thousand people work on the docks."

	claims := ExtractClaims(text, "section")

	assert.Len(t, claims, 3)
}

func TestExtractClaims_EmptyText(t *testing.T) {
	assert.Empty(t, ExtractClaims("", "section"))
}
