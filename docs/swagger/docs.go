// Package swagger registers the OpenAPI document served under /swagger.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/delete": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "uploads"
                ],
                "summary": "Delete a stored file",
                "parameters": [
                    {
                        "description": "Stored file name",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/upload.deleteRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/upload.deleteResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Envelope"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Envelope"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/response.Envelope"
                        }
                    }
                }
            }
        },
        "/upload": {
            "post": {
                "description": "Accepts one file under the \"file\" field (or the \"image\" alias). Images up to 10 MB, videos and PDFs up to 15 MB, APK packages without limit.",
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "uploads"
                ],
                "summary": "Upload a file",
                "parameters": [
                    {
                        "type": "file",
                        "description": "File to upload",
                        "name": "file",
                        "in": "formData"
                    },
                    {
                        "type": "file",
                        "description": "Alias of file",
                        "name": "image",
                        "in": "formData"
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/upload.uploadResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/upload.sizeExceededResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/response.Envelope"
                        }
                    }
                }
            }
        },
        "/uploads/{filename}": {
            "get": {
                "produces": [
                    "application/octet-stream"
                ],
                "tags": [
                    "uploads"
                ],
                "summary": "Fetch a stored file",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Stored file name",
                        "name": "filename",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Envelope"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Envelope"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/response.Envelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "response.Envelope": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                },
                "success": {
                    "type": "boolean"
                }
            }
        },
        "upload.Category": {
            "type": "string",
            "enum": [
                "image",
                "video",
                "document",
                "package"
            ],
            "x-enum-varnames": [
                "CategoryImage",
                "CategoryVideo",
                "CategoryDocument",
                "CategoryPackage"
            ]
        },
        "upload.deleteRequest": {
            "type": "object",
            "properties": {
                "filename": {
                    "type": "string",
                    "example": "file-1718000000000-482913650.png"
                }
            }
        },
        "upload.deleteResponse": {
            "type": "object",
            "properties": {
                "filename": {
                    "type": "string",
                    "example": "file-1718000000000-482913650.png"
                },
                "message": {
                    "type": "string"
                },
                "success": {
                    "type": "boolean"
                }
            }
        },
        "upload.sizeExceededResponse": {
            "type": "object",
            "properties": {
                "actualSize": {
                    "type": "integer",
                    "example": 12582912
                },
                "formattedMaxSize": {
                    "type": "string",
                    "example": "10 MB"
                },
                "formattedSize": {
                    "type": "string",
                    "example": "12 MB"
                },
                "maxSize": {
                    "type": "integer",
                    "example": 10485760
                },
                "message": {
                    "type": "string"
                },
                "success": {
                    "type": "boolean"
                }
            }
        },
        "upload.uploadResponse": {
            "type": "object",
            "properties": {
                "field": {
                    "type": "string",
                    "example": "file"
                },
                "filename": {
                    "type": "string",
                    "example": "file-1718000000000-482913650.png"
                },
                "formattedSize": {
                    "type": "string",
                    "example": "200 KB"
                },
                "message": {
                    "type": "string"
                },
                "mimetype": {
                    "type": "string",
                    "example": "image/png"
                },
                "path": {
                    "type": "string",
                    "example": "http://localhost:8009/uploads/file-1718000000000-482913650.png"
                },
                "size": {
                    "type": "integer",
                    "example": 204800
                },
                "success": {
                    "type": "boolean"
                },
                "type": {
                    "allOf": [
                        {
                            "$ref": "#/definitions/upload.Category"
                        }
                    ],
                    "example": "image"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8009",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Upload Service API",
	Description:      "Stores uploaded images, videos, PDFs and APK packages in a flat directory and serves them by generated name.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
