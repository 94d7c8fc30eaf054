package util

import "github.com/gin-gonic/gin"

// ParamsToMap binds the JSON body of c into a new T.
func ParamsToMap[T any](c *gin.Context) (T, error) {
	var params T

	if err := c.ShouldBindJSON(&params); err != nil {
		return params, err
	}

	return params, nil
}

// QueryToMap binds the query string of c into a new T using form tags.
func QueryToMap[T any](c *gin.Context) (T, error) {
	var params T

	if err := c.ShouldBindQuery(&params); err != nil {
		return params, err
	}

	return params, nil
}
