// Package npms provides a client for the npms.io search API
// (https://api.npms.io/v2/search), which ranks npm packages by quality,
// popularity and maintenance.
//
// The final score is reported by the API in the range 0..1; [Client.Search]
// converts it to a rounded integer percentage.
package npms
