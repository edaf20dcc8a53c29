package web

import "embed"

// TemplatesFS holds the html/template pages and partials.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

//go:embed static/*
var StaticFS embed.FS
