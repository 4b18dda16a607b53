// Package extract maps the labeled date fragments of a release page onto a
// theatrical date and a digital date. It knows nothing about HTML; the site
// client flattens pages into Fields first.
package extract
