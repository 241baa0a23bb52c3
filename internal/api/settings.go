package api

import "context"

// Setting is a user's notification settings.
type Setting struct {
	User         string `json:"user,omitempty"`
	Birthday     string `json:"birthday,omitempty"`
	Alarm        string `json:"alarm,omitempty"`
	DisableAlarm bool   `json:"disableAlarm"`
	Openid       string `json:"openid,omitempty"`
	AppOpenid    string `json:"appOpenid,omitempty"`
}

func (s SettingService) GetSetting(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpGetSetting, req)
}

func (s SettingService) DeleteSetting(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpDeleteSetting, req)
}

// UpdateSetting requires the user path parameter and Body.
func (s SettingService) UpdateSetting(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpUpdateSetting, req)
}
