// Package site scrapes the release-tracking website.
//
// Each Session keeps its own cookie jar so concurrent workers do not share
// state, while every session draws from one rate limiter. Pages are parsed
// with goquery into extract.Field values; deciding which field is a theater
// or digital date is left to the extract package.
package site
