package sharepoint

import "context"

// Web is the subset of the SP.Web resource spsite reads.
type Web struct {
	Title string `json:"Title"`
}

// Web loads the site's web object and returns its title.
func (c *ClientContext) Web(ctx context.Context) (Web, error) {
	var w Web
	if err := c.get(ctx, "/_api/web?$select=Title", &w); err != nil {
		return Web{}, err
	}
	return w, nil
}
