package app

import "encoding/json"

func encode(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decode(msg string, v interface{}) error {
	return json.Unmarshal([]byte(msg), v)
}
