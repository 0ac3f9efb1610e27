// Package pixiv fetches illustration metadata from Pixiv's app API.
// Authentication uses the mobile-app OAuth refresh token flow.
package pixiv
