// Package services implements the driving ports.
//
// BuildService runs the article pipeline: list sources, extract
// annotations, render HTML, write artifacts and the search index.
// SearchService answers ranked, related, suggestion and popular queries
// over the last published index. SettingsService layers config file
// values and environment overrides over the defaults.
package services
