// Package sites maps source URLs onto the known origin sites.
//
// The dispatch table is ordered: the first keyword found as a substring of
// any input URL decides the site for the whole run, matching how downloader
// credentials are selected.
package sites
