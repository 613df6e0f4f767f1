package vision

// DescribePrompt asks for a full free-text analysis in Spanish.
const DescribePrompt = `
Analiza esta imagen de manera detallada y proporciona:

1. **Descripción general**: ¿Qué se ve en la imagen?
2. **Objetos y elementos**: Lista los objetos principales que puedes identificar
3. **Colores dominantes**: Describe la paleta de colores
4. **Composición**: Analiza la disposición y composición de los elementos
5. **Contexto o escenario**: ¿Dónde parece estar tomada la foto?
6. **Emociones o ambiente**: ¿Qué sensaciones transmite la imagen?
7. **Detalles técnicos**: Aspectos como iluminación, calidad, estilo
8. **Interpretación**: ¿Qué historia cuenta esta imagen?

Por favor, proporciona un análisis completo y detallado.
`

// LabelsPrompt asks for a bare JSON array of {label, confidence}.
const LabelsPrompt = `Analyze this image and identify the main objects, concepts, and entities present. For each item you identify, provide a descriptive label and an estimated confidence score from 0 to 1. Return ONLY the result as a JSON array of objects, where each object has 'label' and 'confidence' keys. Do not include any explanation or text, just the JSON array.`
