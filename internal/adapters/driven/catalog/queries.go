package catalog

import "github.com/questtrack/refsync/internal/core/domain"

// Per-domain GraphQL queries. Each query selects a single top-level array
// field matching domain.PayloadField; the client rejects any response where
// that field is absent or not an array.
const (
	tasksQuery = `{
  tasks {
    id
    name
    normalizedName
    experience
    minPlayerLevel
    kappaRequired
    lightkeeperRequired
    trader { id name }
    map { id name }
    taskRequirements { task { id } status }
    objectives { id type description optional }
  }
}`

	hideoutQuery = `{
  hideoutStations {
    id
    name
    normalizedName
    levels {
      id
      level
      constructionTime
      itemRequirements { id count item { id } }
      stationLevelRequirements { station { id } level }
      skillRequirements { name level }
      traderRequirements { trader { id } level }
    }
  }
}`

	itemsQuery = `{
  items {
    id
    name
    shortName
    normalizedName
    basePrice
    width
    height
    iconLink
    wikiLink
    types
  }
}`
)

// queryFor returns the GraphQL query for a domain.
func queryFor(d domain.DataDomain) string {
	switch d {
	case domain.DomainTasks:
		return tasksQuery
	case domain.DomainHideout:
		return hideoutQuery
	case domain.DomainItems:
		return itemsQuery
	}
	return ""
}
