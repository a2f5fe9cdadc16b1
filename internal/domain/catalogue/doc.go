// Package catalogue contains the Catalogue bounded context.
// A catalogue is a styled PDF document listing a shop's products. This package
// holds the request, style options and page setup value objects; rendering
// lives in the application and infrastructure layers.
package catalogue
